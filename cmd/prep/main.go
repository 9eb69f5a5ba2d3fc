package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/provamaster/provamaster/internal/apiclient"
	"github.com/provamaster/provamaster/internal/auth"
	"github.com/provamaster/provamaster/internal/catalog"
	"github.com/provamaster/provamaster/internal/cli"
	"github.com/provamaster/provamaster/internal/practice"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "prep",
	Short: "Terminal client for the provamaster practice service",
	Long:  "prep — browse exam packages, pick topics and run timed practice sessions against a provamaster gateway.",
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword()
		if err != nil {
			return err
		}
		client := apiclient.New(serverURL, nil)
		res, err := client.Login(cmd.Context(), args[0], password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := saveCredentials(res); err != nil {
			return err
		}
		fmt.Printf("Autenticado como %s (%s)\n", args[0], res.Role)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a student account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword()
		if err != nil {
			return err
		}
		client := apiclient.New(serverURL, nil)
		res, err := client.Register(cmd.Context(), args[0], password)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		if err := saveCredentials(res); err != nil {
			return err
		}
		fmt.Printf("Conta criada. Autenticado como %s\n", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := authedClient()
		// Sign-out is idempotent; a failed call only costs a notice.
		if err := client.SignOut(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "aviso: falha ao encerrar sessão no servidor: %v\n", err)
		}
		if err := clearCredentials(); err != nil {
			return err
		}
		fmt.Println("Sessão encerrada.")
		return nil
	},
}

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List exam packages",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}
		pkgs, err := client.ListPackages(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range pkgs {
			fmt.Printf("%s\t%s — R$ %.2f\n", p.ID, p.Title, p.Price)
			for _, f := range p.Features {
				fmt.Printf("\t• %s\n", f)
			}
		}
		return nil
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics <packageID>",
	Short: "Pick topics from a package and start a practice session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, info, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}
		topics, err := client.ListTopics(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("list topics: %w", err)
		}
		sel, err := cli.RunTopicPicker(os.Stdin, os.Stdout, topics)
		if err != nil || sel == nil {
			return err
		}
		topicIDs, count := sel.Params()
		return runPractice(cmd.Context(), client, info, catalog.ParseTopicIDs(topicIDs), count)
	},
}

var practiceCount int

var practiceCmd = &cobra.Command{
	Use:   "practice <topicIDs>",
	Short: "Run a practice session over a comma-joined topic list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, info, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}
		return runPractice(cmd.Context(), client, info, catalog.ParseTopicIDs(args[0]), practiceCount)
	},
}

func runPractice(ctx context.Context, client *apiclient.Client, info auth.SessionInfo, topicIDs []string, count int) error {
	machine := practice.NewMachine(client, client, info.UserID, practice.Options{
		Notifier: cli.Notifier{Out: os.Stdout},
	})
	if err := machine.Start(ctx, topicIDs, count); err != nil {
		log.Printf("start session: %v", err)
	}
	return cli.RunPractice(ctx, os.Stdin, os.Stdout, machine)
}

// requireSession is the auth gate: a one-shot session check resolves the
// watcher, and unauthenticated callers are pointed at login with the command
// they were trying to run.
func requireSession(ctx context.Context) (*apiclient.Client, auth.SessionInfo, error) {
	client, creds := authedClient()
	watcher := auth.NewWatcher()

	go func() {
		if creds == nil {
			watcher.Clear()
			return
		}
		sc, err := client.CurrentSession(ctx)
		if err != nil {
			watcher.Clear()
			return
		}
		watcher.SetSession(auth.SessionInfo{UserID: sc.UserID, Role: sc.Role, Token: creds.AccessToken})
	}()

	state, info := watcher.Wait(ctx)
	if state != auth.StateAuthenticated {
		return nil, auth.SessionInfo{}, fmt.Errorf("não autenticado: execute 'prep login' e repita: prep %s",
			strings.Join(os.Args[1:], " "))
	}
	return client, info, nil
}

func main() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		envOr("PREP_SERVER", "http://127.0.0.1:8080"), "gateway base URL")
	practiceCmd.Flags().IntVar(&practiceCount, "count", catalog.DefaultQuestionCount, "desired question count")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(practiceCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

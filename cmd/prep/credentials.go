package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/provamaster/provamaster/internal/apiclient"
)

type credentials struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
}

func credentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".provamaster", "credentials.json"), nil
}

func saveCredentials(res apiclient.LoginResult) error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	buf, err := json.Marshal(credentials{
		AccessToken: res.AccessToken,
		UserID:      res.UserID,
		Role:        res.Role,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o600)
}

func loadCredentials() *credentials {
	path, err := credentialsPath()
	if err != nil {
		return nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c credentials
	if err := json.Unmarshal(buf, &c); err != nil || c.AccessToken == "" {
		return nil
	}
	return &c
}

func clearCredentials() error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// authedClient builds a client with the stored token, when present.
func authedClient() (*apiclient.Client, *credentials) {
	client := apiclient.New(serverURL, nil)
	creds := loadCredentials()
	if creds != nil {
		client.SetToken(creds.AccessToken)
	}
	return client, creds
}

func promptPassword() (string, error) {
	fmt.Print("Senha: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

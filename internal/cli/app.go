package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/provamaster/provamaster/internal/catalog"
	"github.com/provamaster/provamaster/internal/practice"
)

// Notifier prints the transient solve feedback the way the web client showed
// toasts.
type Notifier struct{ Out io.Writer }

func (n Notifier) Correct(title, detail string)   { fmt.Fprintf(n.Out, "\n✔ %s %s\n", title, detail) }
func (n Notifier) Incorrect(title, detail string) { fmt.Fprintf(n.Out, "\n✘ %s. %s\n", title, detail) }

// RunTopicPicker drives the multi-select topic view: toggle by number,
// "/text" filters by title, "count N" sets the question count, "start"
// confirms. Returns the confirmed selection, or nil when the user quits.
func RunTopicPicker(in io.Reader, out io.Writer, topics []catalog.Topic) (*catalog.Selection, error) {
	sel := catalog.NewSelection(topics)
	reader := bufio.NewReader(in)

	for {
		renderTopics(out, sel)
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		input := strings.TrimSpace(line)
		switch {
		case input == "quit" || input == "q":
			return nil, nil
		case input == "start":
			if !sel.CanStart() {
				fmt.Fprintln(out, "Selecione ao menos um tópico antes de começar.")
				continue
			}
			return sel, nil
		case strings.HasPrefix(input, "/"):
			sel.SetFilter(strings.TrimPrefix(input, "/"))
		case strings.HasPrefix(input, "count "):
			sel.SetCount(strings.TrimPrefix(input, "count "))
		default:
			if n, err := strconv.Atoi(input); err == nil {
				visible := sel.Visible()
				if n >= 1 && n <= len(visible) {
					sel.Toggle(visible[n-1].ID)
				}
			}
		}
	}
}

func renderTopics(out io.Writer, sel *catalog.Selection) {
	fmt.Fprintln(out)
	for i, t := range sel.Visible() {
		mark := " "
		if sel.IsSelected(t.ID) {
			mark = "x"
		}
		fmt.Fprintf(out, "[%s] %d. %s — %s (%d questões)\n", mark, i+1, t.Title, t.Description, t.QuestionCount)
	}
	fmt.Fprintf(out, "\nSelecionados: %d tópicos, %d questões disponíveis | count=%d\n",
		len(sel.SelectedIDs()), sel.QuestionTotal(), sel.Count())
	fmt.Fprintln(out, "Comandos: <nº> alterna, /texto filtra, count N, start, quit")
}

// RunPractice drives an already-started machine through the question loop and
// prints the summary at the end.
func RunPractice(ctx context.Context, in io.Reader, out io.Writer, m *practice.Machine) error {
	if m.State() == practice.StateError {
		fmt.Fprintln(out, "Erro ao carregar questões. Não foi possível carregar as questões.")
		fmt.Fprintf(out, "Voltar: %s\n", m.BackRoute())
		return m.Err()
	}

	reader := bufio.NewReader(in)
	for m.State() == practice.StateInProgress {
		renderQuestion(out, m)
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		switch input := strings.TrimSpace(line); input {
		case "quit", "q":
			return nil
		case "solve", "s":
			m.Solve(ctx)
		case "next", "n":
			m.Next(ctx)
		case "prev", "p":
			m.Previous()
		case "rationale", "r":
			if q, ok := m.Current(); ok && m.Revealed() {
				fmt.Fprintf(out, "\nResolução: %s\n", q.Rationale)
			}
		default:
			m.Select(input)
		}
	}

	if m.State() == practice.StateSummary {
		renderSummary(out, m)
	}
	return nil
}

func renderQuestion(out io.Writer, m *practice.Machine) {
	q, ok := m.Current()
	if !ok {
		return
	}
	resolved, correct, wrong := m.Progress()
	fmt.Fprintf(out, "\n[%s] Questão %d de %d (%d resolvidas, %d acertos, %d erros)\n",
		m.Elapsed(), m.Index()+1, m.Len(), resolved, correct, wrong)
	if q.PackageTitle != "" || q.TopicTitle != "" {
		fmt.Fprintf(out, "%s > %s\n", q.PackageTitle, q.TopicTitle)
	}
	fmt.Fprintf(out, "\n%s\n\n", q.Text)
	for _, opt := range q.Options {
		mark := " "
		if m.Pending() == opt.ID {
			mark = ">"
		}
		if m.Revealed() && opt.ID == q.CorrectAnswer {
			mark = "✔"
		}
		fmt.Fprintf(out, "%s %s. %s\n", mark, opt.ID, opt.Text)
	}
	fmt.Fprintln(out, "\nComandos: <id> seleciona, solve, next, prev, rationale, quit")
}

func renderSummary(out io.Writer, m *practice.Machine) {
	s, ok := m.Summary()
	if !ok {
		fmt.Fprintln(out, "Nenhuma questão respondida.")
		return
	}
	fmt.Fprintln(out, "\nSessão Concluída!")
	fmt.Fprintf(out, "Pontuação: %d/%d (%.1f%%)\n", s.CorrectCount, s.TotalQuestions, s.Accuracy)
	fmt.Fprintf(out, "Tempo total: %s | Tempo médio por questão: %s\n",
		practice.FormatDuration(s.SessionTime),
		practice.FormatDuration(int(s.AverageTime+0.5)))
	for i, a := range s.Attempts {
		mark := "✘"
		if a.IsCorrect {
			mark = "✔"
		}
		fmt.Fprintf(out, "%s Questão %d — %s\n", mark, i+1, practice.FormatDuration(a.TimeSpent))
	}
	fmt.Fprintf(out, "\nVoltar aos tópicos: %s\n", m.BackRoute())
}

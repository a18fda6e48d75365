package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// ErrNoChoices is returned when Select is called without options.
var ErrNoChoices = errors.New("no choices to select from")

// TerminalPromptRepository asks questions on a line-oriented terminal.
type TerminalPromptRepository struct {
	in  *bufio.Reader
	out io.Writer
	fd  int

	question lipgloss.Style
	selected lipgloss.Style
	warning  lipgloss.Style
}

var _ repositories.PromptRepository = (*TerminalPromptRepository)(nil)

// NewTerminalPromptRepository reads stdin and writes prompts to stderr.
func NewTerminalPromptRepository() repositories.PromptRepository {
	p := NewTerminalPromptRepositoryWithIO(os.Stdin, os.Stderr)
	p.fd = int(os.Stdin.Fd())
	return p
}

// NewTerminalPromptRepositoryWithIO reads answers from in. Passwords are read
// as plain lines since in is not a terminal.
func NewTerminalPromptRepositoryWithIO(in io.Reader, out io.Writer) *TerminalPromptRepository {
	// styles degrade to plain text when out is not a color terminal
	renderer := lipgloss.NewRenderer(out)
	return &TerminalPromptRepository{
		in:       bufio.NewReader(in),
		out:      out,
		fd:       -1,
		question: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		selected: renderer.NewStyle().Foreground(lipgloss.Color("10")),
		warning:  renderer.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// Select accepts either the 1-based index or the value of a choice. An
// empty answer picks defaultValue; anything else is asked again.
func (p *TerminalPromptRepository) Select(
	message string,
	choices []entities.Choice,
	defaultValue string,
) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	for {
		_, _ = fmt.Fprintln(p.out, p.question.Render("? "+message))
		for i, choice := range choices {
			line := fmt.Sprintf("  %d) %s", i+1, choice.Name)
			if choice.Value == defaultValue {
				line = p.selected.Render(fmt.Sprintf("> %d) %s", i+1, choice.Name))
			}
			_, _ = fmt.Fprintln(p.out, line)
		}
		_, _ = fmt.Fprint(p.out, "  answer: ")

		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" && defaultValue != "" {
			return defaultValue, nil
		}
		if value, ok := match(choices, answer); ok {
			return value, nil
		}
		_, _ = fmt.Fprintln(p.out, p.warning.Render(fmt.Sprintf("  %q is not one of the choices", answer)))
	}
}

func (p *TerminalPromptRepository) Input(message, defaultValue string) (string, error) {
	if defaultValue != "" {
		_, _ = fmt.Fprintf(p.out, "%s (%s): ", p.question.Render("? "+message), defaultValue)
	} else {
		_, _ = fmt.Fprintf(p.out, "%s: ", p.question.Render("? "+message))
	}
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

func (p *TerminalPromptRepository) Password(message string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", p.question.Render("? "+message))
	if p.fd >= 0 && term.IsTerminal(p.fd) {
		secret, err := term.ReadPassword(p.fd)
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}
	return p.readLine()
}

func (p *TerminalPromptRepository) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func match(choices []entities.Choice, answer string) (string, bool) {
	if index, err := strconv.Atoi(answer); err == nil && index >= 1 && index <= len(choices) {
		return choices[index-1].Value, true
	}
	for _, choice := range choices {
		if strings.EqualFold(choice.Value, answer) {
			return choice.Value, true
		}
	}
	return "", false
}

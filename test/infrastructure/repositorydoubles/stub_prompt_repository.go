//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"errors"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// ErrNoAnswer is returned when a StubPromptRepository runs out of answers.
var ErrNoAnswer = errors.New("no scripted answer")

// StubPromptRepository replays scripted answers in order, one queue per kind.
type StubPromptRepository struct {
	Selects   []string
	Inputs    []string
	Passwords []string

	Messages []string
}

var _ repositories.PromptRepository = (*StubPromptRepository)(nil)

func (s *StubPromptRepository) Select(message string, _ []entities.Choice, _ string) (string, error) {
	s.Messages = append(s.Messages, message)
	return pop(&s.Selects)
}

func (s *StubPromptRepository) Input(message, _ string) (string, error) {
	s.Messages = append(s.Messages, message)
	return pop(&s.Inputs)
}

func (s *StubPromptRepository) Password(message string) (string, error) {
	s.Messages = append(s.Messages, message)
	return pop(&s.Passwords)
}

func pop(queue *[]string) (string, error) {
	if len(*queue) == 0 {
		return "", ErrNoAnswer
	}
	answer := (*queue)[0]
	*queue = (*queue)[1:]
	return answer, nil
}

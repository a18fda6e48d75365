package repositories

import "github.com/rios0rios0/shipflow/internal/domain/entities"

// PromptRepository collects answers from the operator.
type PromptRepository interface {
	Select(message string, choices []entities.Choice, defaultValue string) (string, error)
	Input(message, defaultValue string) (string, error)
	Password(message string) (string, error)
}

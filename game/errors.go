package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestions is returned when a player has run out of questions to ask.
	ErrNoQuestions = errors.New("player has no questions left")
	// ErrSecretNotSelected is returned when a session is built before both secrets are chosen.
	ErrSecretNotSelected = errors.New("player has not selected a secret")
)

// QuestionNotFoundError is the panic value raised when a question is removed twice.
type QuestionNotFoundError struct {
	Player   string
	Question string
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("player %s has no remaining question %q", e.Player, e.Question)
}

package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"guesswho/experiments/metrics"
	"guesswho/game"
)

type Engine struct {
	Session *game.Session
}

var _ Runner = (*Engine)(nil)

func LocalEngine(session *game.Session) *Engine {
	if session == nil {
		panic("engine needs a session")
	}
	return &Engine{Session: session}
}

// Run executes the entire game loop until a winner or tie is found. The outcome is
// checked after every full round, and as soon as the player to move has no questions.
func (e *Engine) Run() (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	s := e.Session
	gameMetric := metrics.GameMetric{
		ID:             s.ID.String(),
		StartingPlayer: s.WhoseTurn(),
		StartTime:      time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}

	log.Debug().Msgf("game %s: %s vs %s", s.ID, s.Player(1).Name, s.Player(2).Name)

	for !s.Decided() {
		turn := s.WhoseTurn()
		if !s.Player(turn).HasQuestions() {
			s.Winner() // Running out always decides the game
			break
		}

		move, err := e.playTurn(turn)
		if err != nil {
			return "", gameMetric, moveMetrics, err
		}
		move.Step = len(moveMetrics) + 1
		moveMetrics = append(moveMetrics, move)

		if len(s.Moves())%2 == 0 { // Full round
			s.Winner()
		}
	}

	gameMetric.Winner = s.Winner()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(s.Moves())

	log.Debug().Msgf("game %s over after %d moves, winner: %s", s.ID, gameMetric.TotalMoves, gameMetric.Winner)
	return gameMetric.Winner, gameMetric, moveMetrics, nil
}

// playTurn asks, answers and eliminates in one step.
func (e *Engine) playTurn(turn int) (metrics.MoveMetric, error) {
	s := e.Session
	asker := s.Player(turn)

	question, err := asker.ChooseQuestion()
	if err != nil {
		return metrics.MoveMetric{}, fmt.Errorf("%s failed to choose a question: %w", asker.Name, err)
	}
	answer, err := s.Answer(question, game.Opponent(turn))
	if err != nil {
		return metrics.MoveMetric{}, err
	}
	// Only the asker updates: the answer describes the opponent's secret, not the asker's
	if err := asker.EliminateCandidates(question, answer); err != nil {
		return metrics.MoveMetric{}, err
	}
	asker.EliminateQuestion(question)
	s.RecordMove(question)

	log.Debug().Msgf("%s asked %q: %s, %d candidates left", asker.Name, question, answer, asker.NumCandidates())

	move := metrics.MoveMetric{
		Player:     turn,
		Question:   question,
		Answer:     answer,
		Candidates: asker.NumCandidates(),
	}
	if searcher, ok := asker.Strategy().(Searcher); ok {
		move.SearchMetric = searcher.LastSearch()
	}
	return move, nil
}

package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"guesswho/catalog"
	"guesswho/meta"
)

// Session is one game between two players. Players are indexed 1 and 2.
type Session struct {
	ID      uuid.UUID
	players [3]*Player // index 0 unused
	moves   []string
	catalog *catalog.Catalog
	won     string // "" while in progress
}

// NewSession creates a session for two players that have already chosen their secrets.
func NewSession(p1, p2 *Player, c *catalog.Catalog) (*Session, error) {
	if p1 == nil || p2 == nil {
		return nil, errors.New("session needs two players")
	}
	if p1.Name == p2.Name || p1.Name == meta.TIE || p2.Name == meta.TIE {
		return nil, fmt.Errorf("player names must be distinct and not %q: %q, %q", meta.TIE, p1.Name, p2.Name)
	}
	for _, p := range []*Player{p1, p2} {
		if p.Secret() == "" {
			return nil, fmt.Errorf("%s: %w", p.Name, ErrSecretNotSelected)
		}
		if !c.Has(p.Secret()) {
			return nil, fmt.Errorf("%s: secret %q is not in the catalog", p.Name, p.Secret())
		}
	}
	return &Session{
		ID:      uuid.New(),
		players: [3]*Player{nil, p1, p2},
		moves:   []string{},
		catalog: c,
	}, nil
}

// Player returns player 1 or 2.
func (s *Session) Player(i int) *Player {
	if i != 1 && i != 2 {
		panic(fmt.Sprintf("no player %d", i))
	}
	return s.players[i]
}

// Opponent returns the index of the other player.
func Opponent(i int) int {
	return 3 - i
}

// WhoseTurn is 1 for even move counts and 2 for odd ones.
func (s *Session) WhoseTurn() int {
	if len(s.moves)%2 == 0 {
		return 1
	}
	return 2
}

// Answer reports the truth about the secret of player i, who is being questioned.
func (s *Session) Answer(question string, i int) (string, error) {
	return s.catalog.Answer(s.Player(i).Secret(), question)
}

// RecordMove appends an asked question to the move history.
func (s *Session) RecordMove(question string) {
	if question == "" {
		panic("cannot record an empty move")
	}
	s.moves = append(s.moves, question)
}

// Moves returns the questions asked so far, in order.
func (s *Session) Moves() []string {
	return slices.Clone(s.moves)
}

// CopyWithMove returns a deep copy of the session with question appended.
func (s *Session) CopyWithMove(question string) *Session {
	c := s.Copy()
	c.RecordMove(question)
	return c
}

func (s *Session) Copy() *Session {
	return &Session{
		ID:      s.ID,
		players: [3]*Player{nil, s.players[1].Copy(), s.players[2].Copy()},
		moves:   slices.Clone(s.moves),
		catalog: s.catalog,
		won:     s.won,
	}
}

// Decided reports whether a winner or tie has been recorded.
func (s *Session) Decided() bool {
	return s.won != ""
}

// Winner returns the winning player's name, meta.TIE, or "" while the game goes on.
// Once decided the result never changes.
func (s *Session) Winner() string {
	if s.won != "" {
		return s.won
	}
	s.won = s.evaluate()
	return s.won
}

func (s *Session) evaluate() string {
	p1, p2 := s.players[1], s.players[2]
	switch {
	case !p1.HasQuestions() && !p2.HasQuestions():
		return meta.TIE
	case !p2.HasQuestions():
		return p1.Name
	case !p1.HasQuestions():
		return p2.Name
	case p1.NumCandidates() == 1 || p2.NumCandidates() == 1:
		// Each player guesses the other's secret.
		right1 := p1.Guess() == p2.Secret()
		right2 := p2.Guess() == p1.Secret()
		switch {
		case right1 && right2:
			return meta.TIE
		case right2:
			return p2.Name
		case right1:
			return p1.Name
		}
		// Both wrong: play on.
	}
	return ""
}

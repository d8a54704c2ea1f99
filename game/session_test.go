package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"guesswho/catalog"
	"guesswho/meta"
)

func newTestSession(t *testing.T, secret1, secret2 string) *Session {
	t.Helper()
	c := hatCatalog(t)
	p1 := NewPlayer("one", c, c.Questions(), nil)
	p2 := NewPlayer("two", c, c.Questions(), nil)
	p1.SetSecret(secret1)
	p2.SetSecret(secret2)
	s, err := NewSession(p1, p2, c)
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	c := hatCatalog(t)

	t.Run("requiring secrets", func(t *testing.T) {
		p1 := NewPlayer("one", c, c.Questions(), nil)
		p2 := NewPlayer("two", c, c.Questions(), nil)
		p1.SetSecret("A")

		_, err := NewSession(p1, p2, c)
		require.ErrorIs(t, err, ErrSecretNotSelected)
	})

	t.Run("rejecting a secret outside the catalog", func(t *testing.T) {
		p1 := NewPlayer("one", c, c.Questions(), nil)
		p2 := NewPlayer("two", c, c.Questions(), nil)
		p1.SetSecret("A")
		p2.SetSecret("Z")

		_, err := NewSession(p1, p2, c)
		require.Error(t, err)
	})

	t.Run("rejecting clashing names", func(t *testing.T) {
		p1 := NewPlayer("same", c, c.Questions(), nil)
		p2 := NewPlayer("same", c, c.Questions(), nil)
		p1.SetSecret("A")
		p2.SetSecret("B")

		_, err := NewSession(p1, p2, c)
		require.Error(t, err)
	})
}

func TestWhoseTurn(t *testing.T) {
	s := newTestSession(t, "A", "B")

	got := []int{}
	for _, q := range []string{"hasHat", "hasHat", "hasBeard", "hasBeard", "hasGlasses"} {
		got = append(got, s.WhoseTurn())
		s.RecordMove(q)
	}
	got = append(got, s.WhoseTurn())

	require.Equal(t, []int{1, 2, 1, 2, 1, 2}, got)
}

func TestAnswer(t *testing.T) {
	t.Run("answering about the questioned player's secret", func(t *testing.T) {
		s := newTestSession(t, "A", "B")

		answer, err := s.Answer("hasHat", 2)
		require.NoError(t, err)
		require.Equal(t, "no", answer)

		require.NoError(t, s.Player(1).EliminateCandidates("hasHat", answer))
		require.Equal(t, []string{"B", "D"}, s.Player(1).Candidates())
	})

	t.Run("unknown question", func(t *testing.T) {
		s := newTestSession(t, "A", "B")

		_, err := s.Answer("hasCape", 1)
		var unknown *catalog.UnknownQuestionError
		require.ErrorAs(t, err, &unknown)
	})
}

func TestCopyWithMove(t *testing.T) {
	s := newTestSession(t, "A", "B")
	s.RecordMove("hasHat")

	next := s.CopyWithMove("hasBeard")
	require.NoError(t, next.Player(1).EliminateCandidates("hasHat", "no"))

	require.Equal(t, []string{"hasHat"}, s.Moves(), "Original moves should not change")
	require.Equal(t, []string{"hasHat", "hasBeard"}, next.Moves())
	require.Equal(t, 4, s.Player(1).NumCandidates(), "Original players should not change")
	require.Equal(t, s.ID, next.ID)
}

func TestWinner(t *testing.T) {
	t.Run("no winner while both players can play", func(t *testing.T) {
		s := newTestSession(t, "A", "B")
		require.Equal(t, "", s.Winner())
		require.False(t, s.Decided())
	})

	t.Run("tie when both run out of questions", func(t *testing.T) {
		s := newTestSession(t, "A", "B")
		for _, q := range s.Player(1).Questions() {
			s.Player(1).EliminateQuestion(q)
			s.Player(2).EliminateQuestion(q)
		}
		require.Equal(t, meta.TIE, s.Winner())
		require.True(t, s.Decided())
	})

	t.Run("player one wins when player two runs out", func(t *testing.T) {
		s := newTestSession(t, "A", "B")
		for _, q := range s.Player(2).Questions() {
			s.Player(2).EliminateQuestion(q)
		}
		require.Equal(t, "one", s.Winner())
	})

	t.Run("player two wins when player one runs out", func(t *testing.T) {
		s := newTestSession(t, "A", "B")
		for _, q := range s.Player(1).Questions() {
			s.Player(1).EliminateQuestion(q)
		}
		require.Equal(t, "two", s.Winner())
	})

	t.Run("both guesses right is a tie", func(t *testing.T) {
		s := newTestSession(t, "A", "B")
		// Player one narrows to B; player two keeps A and C and guesses A first.
		require.NoError(t, s.Player(1).EliminateCandidates("hasHat", "no"))
		require.NoError(t, s.Player(1).EliminateCandidates("hasGlasses", "yes"))
		require.NoError(t, s.Player(2).EliminateCandidates("hasHat", "yes"))

		require.Equal(t, meta.TIE, s.Winner(), "Both guesses are right")
	})

	t.Run("only player one guesses right", func(t *testing.T) {
		s := newTestSession(t, "C", "B")
		require.NoError(t, s.Player(1).EliminateCandidates("hasHat", "no"))
		require.NoError(t, s.Player(1).EliminateCandidates("hasGlasses", "yes"))
		require.NoError(t, s.Player(2).EliminateCandidates("hasHat", "yes"))

		require.Equal(t, "one", s.Winner())
	})

	t.Run("only player two guesses right", func(t *testing.T) {
		s := newTestSession(t, "A", "B")
		// Player one is left with D and guesses wrong; player two is left with A.
		require.NoError(t, s.Player(1).EliminateCandidates("hasHat", "no"))
		require.NoError(t, s.Player(1).EliminateCandidates("hasBeard", "yes"))
		require.NoError(t, s.Player(2).EliminateCandidates("hasBeard", "no"))
		require.NoError(t, s.Player(2).EliminateCandidates("hasHat", "yes"))

		require.Equal(t, "two", s.Winner())
	})

	t.Run("both guesses wrong keeps the game going", func(t *testing.T) {
		s := newTestSession(t, "A", "B")
		require.NoError(t, s.Player(1).EliminateCandidates("hasHat", "no"))
		require.NoError(t, s.Player(1).EliminateCandidates("hasBeard", "yes"))
		require.NoError(t, s.Player(2).EliminateCandidates("hasHat", "yes"))
		require.NoError(t, s.Player(2).EliminateCandidates("hasBeard", "yes"))

		require.Equal(t, "", s.Winner())
		require.False(t, s.Decided())
	})

	t.Run("decided result does not change", func(t *testing.T) {
		s := newTestSession(t, "A", "B")
		for _, q := range s.Player(2).Questions() {
			s.Player(2).EliminateQuestion(q)
		}
		require.Equal(t, "one", s.Winner())

		for _, q := range s.Player(1).Questions() {
			s.Player(1).EliminateQuestion(q)
		}
		require.Equal(t, "one", s.Winner(), "Decided sessions should not transition back")
	})
}

package searcher

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"guesswho/catalog"
	"guesswho/game"
)

// newCatalog builds a catalog from rows of {question, answer for names[0], answer for names[1], ...}.
func newCatalog(t *testing.T, names []string, rows [][]string) *catalog.Catalog {
	t.Helper()
	questions := make([]string, len(rows))
	for i, row := range rows {
		questions[i] = row[0]
	}
	entries := make([]catalog.Entry, len(names))
	for j, name := range names {
		answers := make([]string, len(rows))
		for i, row := range rows {
			answers[i] = row[j+1]
		}
		entries[j] = catalog.Entry{Name: name, Questions: questions, Answers: answers}
	}
	c, err := catalog.New(entries...)
	require.NoError(t, err)
	return c
}

func newPlayer(c *catalog.Catalog, s game.Strategy) *game.Player {
	return game.NewPlayer("player", c, c.Questions(), s)
}

// randomCatalog has n identities answering q yes/no questions at random.
func randomCatalog(t *testing.T, n, q int, seed int64) *catalog.Catalog {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("person%d", i)
	}
	rows := make([][]string, q)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("question%d", i)}
		for range names {
			answer := "no"
			if rng.Intn(2) == 0 {
				answer = "yes"
			}
			rows[i] = append(rows[i], answer)
		}
	}
	return newCatalog(t, names, rows)
}

var fourNames = []string{"A", "B", "C", "D"}

func TestRandom(t *testing.T) {
	c := newCatalog(t, fourNames, [][]string{
		{"q1", "yes", "no", "yes", "no"},
		{"q2", "yes", "yes", "no", "no"},
	})
	r := NewRandom(rand.New(rand.NewSource(3)))
	p := newPlayer(c, r)

	t.Run("choosing a remaining question", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			q, err := p.ChooseQuestion()
			require.NoError(t, err)
			require.Contains(t, []string{"q1", "q2"}, q)
		}
	})

	t.Run("guessing a surviving candidate", func(t *testing.T) {
		require.NoError(t, p.EliminateCandidates("q1", "no"))
		for i := 0; i < 20; i++ {
			require.Contains(t, []string{"B", "D"}, p.Guess())
		}
	})

	t.Run("running out of questions", func(t *testing.T) {
		empty := game.NewPlayer("empty", c, nil, r)
		_, err := r.ChooseQuestion(empty)
		require.ErrorIs(t, err, game.ErrNoQuestions)
	})
}

func TestGreedy(t *testing.T) {
	t.Run("preferring an even split", func(t *testing.T) {
		c := newCatalog(t, fourNames, [][]string{
			{"lopsided", "yes", "no", "no", "no"},
			{"even", "yes", "yes", "no", "no"},
		})
		q, err := newPlayer(c, nil).Copy().ChooseQuestion()
		require.NoError(t, err)
		require.Equal(t, "lopsided", q, "Poor baseline should take the first question")

		q, err = NewGreedy(nil).ChooseQuestion(newPlayer(c, nil))
		require.NoError(t, err)
		require.Equal(t, "even", q)
	})

	t.Run("breaking ties by question order", func(t *testing.T) {
		c := newCatalog(t, fourNames, [][]string{
			{"first", "yes", "yes", "no", "no"},
			{"second", "yes", "no", "yes", "no"},
		})
		q, err := NewGreedy(nil).ChooseQuestion(newPlayer(c, nil))
		require.NoError(t, err)
		require.Equal(t, "first", q)
	})

	t.Run("guessing without randomness", func(t *testing.T) {
		c := newCatalog(t, fourNames, [][]string{{"q", "yes", "yes", "no", "no"}})
		require.Equal(t, "A", NewGreedy(nil).Guess(newPlayer(c, nil)))
	})
}

func TestTreeSearchChooseQuestion(t *testing.T) {
	t.Run("preferring an even split at depth one", func(t *testing.T) {
		c := newCatalog(t, fourNames, [][]string{
			{"lopsided", "yes", "no", "no", "no"},
			{"even", "yes", "yes", "no", "no"},
		})
		ts := NewTreeSearch(WithMaxDepth(1))

		q, err := ts.ChooseQuestion(newPlayer(c, ts))
		require.NoError(t, err)
		require.Equal(t, "even", q)
	})

	t.Run("preferring a question that identifies within the horizon", func(t *testing.T) {
		c := newCatalog(t, fourNames, [][]string{
			{"lopsided", "yes", "no", "no", "no"},
			{"hat", "yes", "yes", "no", "no"},
			{"beard", "yes", "no", "yes", "no"},
		})
		ts := NewTreeSearch(WithMaxDepth(2))

		q, err := ts.ChooseQuestion(newPlayer(c, ts))
		require.NoError(t, err)
		require.Equal(t, "hat", q)
	})

	t.Run("combining answers by mode", func(t *testing.T) {
		names := []string{"A", "B", "C", "D", "E", "F"}
		c := newCatalog(t, names, [][]string{
			{"halves", "x", "x", "x", "y", "y", "y"},
			{"spread", "a", "b", "c", "d", "d", "d"},
		})

		worst := NewTreeSearch(WithMaxDepth(1), WithMode(WorstCase))
		q, err := worst.ChooseQuestion(newPlayer(c, worst))
		require.NoError(t, err)
		require.Equal(t, "halves", q, "Both leave at most three; the first question wins the tie")

		expected := NewTreeSearch(WithMaxDepth(1), WithMode(Expected))
		q, err = expected.ChooseQuestion(newPlayer(c, expected))
		require.NoError(t, err)
		require.Equal(t, "spread", q, "Spread leaves two on average against three")
	})

	t.Run("no question splits the candidates", func(t *testing.T) {
		c := newCatalog(t, fourNames, [][]string{
			{"q1", "yes", "yes", "yes", "yes"},
			{"q2", "no", "no", "no", "no"},
		})
		ts := NewTreeSearch()

		q, err := ts.ChooseQuestion(newPlayer(c, ts))
		require.NoError(t, err)
		require.Equal(t, "q1", q)
	})

	t.Run("running out of questions", func(t *testing.T) {
		c := newCatalog(t, fourNames, [][]string{{"q", "yes", "yes", "no", "no"}})
		ts := NewTreeSearch()
		p := game.NewPlayer("empty", c, nil, ts)

		_, err := ts.ChooseQuestion(p)
		require.ErrorIs(t, err, game.ErrNoQuestions)
	})

	t.Run("search leaves the player untouched", func(t *testing.T) {
		c := randomCatalog(t, 8, 6, 11)
		ts := NewTreeSearch(WithMaxDepth(3), WithGoroutines(4))
		p := newPlayer(c, ts)

		_, err := p.ChooseQuestion()
		require.NoError(t, err)
		require.Equal(t, c.Names(), p.Candidates())
		require.Equal(t, c.Questions(), p.Questions())
	})

	t.Run("parallel and sequential searches agree", func(t *testing.T) {
		c := randomCatalog(t, 8, 7, 5)
		sequential := NewTreeSearch(WithMaxDepth(3), WithGoroutines(1))
		parallel := NewTreeSearch(WithMaxDepth(3), WithGoroutines(8))

		want, err := sequential.ChooseQuestion(newPlayer(c, sequential))
		require.NoError(t, err)
		got, err := parallel.ChooseQuestion(newPlayer(c, parallel))
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("unknown question surfaces an error", func(t *testing.T) {
		c := newCatalog(t, fourNames, [][]string{{"q", "yes", "yes", "no", "no"}})
		ts := NewTreeSearch()
		p := game.NewPlayer("player", c, []string{"q", "missing"}, ts)

		_, err := ts.ChooseQuestion(p)
		var unknown *catalog.UnknownQuestionError
		require.ErrorAs(t, err, &unknown)
	})
}

func TestTreeSearchFallback(t *testing.T) {
	c := newCatalog(t, fourNames, [][]string{
		{"lopsided", "yes", "no", "no", "no"},
		{"even", "yes", "yes", "no", "no"},
		{"other", "yes", "no", "yes", "no"},
	})

	t.Run("falling back when the node budget runs out", func(t *testing.T) {
		ts := NewTreeSearch(WithMaxDepth(3), WithMaxNodes(1), WithMetrics())

		q, err := ts.ChooseQuestion(newPlayer(c, ts))
		require.NoError(t, err)
		require.Equal(t, "even", q, "Fallback should play the greedy choice")
		require.True(t, ts.LastSearch().IsFallback)
		require.Greater(t, ts.LastSearch().Nodes, 1)
	})

	t.Run("falling back when the pool is too large", func(t *testing.T) {
		ts := NewTreeSearch(WithMaxCandidates(3), WithMetrics())

		q, err := ts.ChooseQuestion(newPlayer(c, ts))
		require.NoError(t, err)
		require.Equal(t, "even", q)
		require.True(t, ts.LastSearch().IsFallback)
		require.Equal(t, 0, ts.LastSearch().Nodes)
	})

	t.Run("completing within budget", func(t *testing.T) {
		ts := NewTreeSearch(WithMaxDepth(2), WithMetrics())

		_, err := ts.ChooseQuestion(newPlayer(c, ts))
		require.NoError(t, err)
		require.False(t, ts.LastSearch().IsFallback)
		require.Positive(t, ts.LastSearch().Nodes)
		require.Equal(t, 2, ts.LastSearch().MaxDepth)
	})

	t.Run("starting from the default bounds", func(t *testing.T) {
		ts := NewTreeSearch(WithMetrics(), WithMaxDepth(-1), WithMaxNodes(0), WithGoroutines(0))

		_, err := ts.ChooseQuestion(newPlayer(c, ts))
		require.NoError(t, err)
		require.Equal(t, DefaultMaxDepth, ts.LastSearch().MaxDepth)
		require.Equal(t, DefaultMaxNodes, ts.LastSearch().MaxNodes)
		require.Equal(t, DefaultGoroutines, ts.LastSearch().Goroutines)
	})
}

func TestModeString(t *testing.T) {
	require.Equal(t, "worst_case", WorstCase.String())
	require.Equal(t, "expected", Expected.String())
}

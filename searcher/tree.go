package searcher

import (
	"errors"
	"math/rand"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"guesswho/experiments/metrics"
	"guesswho/game"
)

type Option func(ts *TreeSearch)

// TreeSearch looks ahead over its own questions and the possible answers to each,
// and asks the question that leaves the fewest candidates at the search horizon.
type TreeSearch struct {
	maxDepth      int
	maxNodes      int
	maxCandidates int // 0 for no limit on the pool size
	goroutines    int
	mode          Mode
	fallback      *Greedy
	metrics       metrics.Collector
	last          metrics.SearchMetric
}

func WithMaxDepth(depth int) Option {
	return func(ts *TreeSearch) {
		if depth > 0 {
			ts.maxDepth = depth
		}
	}
}

func WithMaxNodes(nodes int) Option {
	return func(ts *TreeSearch) {
		if nodes > 0 {
			ts.maxNodes = nodes
		}
	}
}

func WithMaxCandidates(candidates int) Option {
	return func(ts *TreeSearch) {
		if candidates > 0 {
			ts.maxCandidates = candidates
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(ts *TreeSearch) {
		if goroutines > 0 {
			ts.goroutines = goroutines
		}
	}
}

func WithMode(mode Mode) Option {
	return func(ts *TreeSearch) {
		ts.mode = mode
	}
}

// WithRand sets the source used for guessing.
func WithRand(rng *rand.Rand) Option {
	return func(ts *TreeSearch) {
		ts.fallback = NewGreedy(rng)
	}
}

func WithMetrics() Option {
	return func(ts *TreeSearch) {
		ts.metrics = metrics.NewCollector()
	}
}

func NewTreeSearch(options ...Option) *TreeSearch {
	ts := &TreeSearch{ // Default values
		maxDepth:   DefaultMaxDepth,
		maxNodes:   DefaultMaxNodes,
		goroutines: DefaultGoroutines,
		mode:       WorstCase,
		fallback:   NewGreedy(nil),
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(ts)
	}
	return ts
}

func (ts *TreeSearch) String() string {
	return "crazy"
}

// LastSearch returns the metrics of the most recent ChooseQuestion call.
func (ts *TreeSearch) LastSearch() metrics.SearchMetric {
	return ts.last
}

func (ts *TreeSearch) Guess(p *game.Player) string {
	return ts.fallback.Guess(p)
}

// ChooseQuestion runs the bounded search. If the pool is too large or the node budget
// runs out, the greedy choice is played instead.
func (ts *TreeSearch) ChooseQuestion(p *game.Player) (string, error) {
	if !p.HasQuestions() {
		return "", game.ErrNoQuestions
	}

	ts.metrics.Start(ts.goroutines, ts.maxDepth, ts.maxNodes)
	defer func() { ts.last = ts.metrics.Complete() }()

	if ts.maxCandidates > 0 && p.NumCandidates() > ts.maxCandidates {
		log.Debug().Msgf("%d candidates exceed search limit %d, playing greedy", p.NumCandidates(), ts.maxCandidates)
		ts.metrics.SetFallback(true)
		return ts.fallback.ChooseQuestion(p)
	}

	b := &budget{max: int64(ts.maxNodes)}
	question, err := ts.search(p, b)
	ts.metrics.AddNodes(b.used())
	if errors.Is(err, ErrBudgetExceeded) {
		log.Warn().Msgf("tree search explored %d nodes without finishing, playing greedy", b.used())
		ts.metrics.SetFallback(true)
		return ts.fallback.ChooseQuestion(p)
	}
	return question, err
}

// search scores every remaining question in parallel. Each branch only reads p and
// works on its own copies; the final pick is a reduction in question order.
func (ts *TreeSearch) search(p *game.Player, b *budget) (string, error) {
	questions := p.Questions()
	scores := make([]float64, len(questions))
	splits := make([]bool, len(questions))

	var g errgroup.Group
	g.SetLimit(ts.goroutines)
	for i, q := range questions {
		i, q := i, q
		g.Go(func() error {
			groups, err := p.Partition(q)
			if err != nil {
				return err
			}
			if len(groups) < 2 { // Answer is already known
				return nil
			}
			score, err := ts.evaluate(p, q, groups, ts.maxDepth, b)
			if err != nil {
				return err
			}
			scores[i] = score
			splits[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	best := -1
	for i := range questions {
		if splits[i] && (best < 0 || scores[i] < scores[best]) {
			best = i
		}
	}
	if best < 0 { // No question tells the candidates apart
		return questions[0], nil
	}
	return questions[best], nil
}

// evaluate scores asking question from state p, with depth questions of lookahead left.
func (ts *TreeSearch) evaluate(p *game.Player, question string, groups []game.Group, depth int, b *budget) (float64, error) {
	total := float64(p.NumCandidates())
	worst, expected := 0.0, 0.0
	for _, group := range groups {
		if err := b.spend(); err != nil {
			return 0, err
		}
		child := p.Copy()
		if err := child.EliminateCandidates(question, group.Answer); err != nil {
			return 0, err
		}
		child.EliminateQuestion(question)

		v, err := ts.value(child, depth-1, b)
		if err != nil {
			return 0, err
		}
		worst = max(worst, v)
		expected += v * float64(len(group.Candidates)) / total
	}

	if ts.mode == Expected {
		return expected, nil
	}
	return worst, nil
}

// value is the best score reachable from p: the surviving count at the horizon.
func (ts *TreeSearch) value(p *game.Player, depth int, b *budget) (float64, error) {
	n := float64(p.NumCandidates())
	if depth <= 0 || n <= 1 || !p.HasQuestions() {
		return n, nil
	}

	best := n
	for _, q := range p.Questions() {
		groups, err := p.Partition(q)
		if err != nil {
			return 0, err
		}
		if len(groups) < 2 {
			continue
		}
		v, err := ts.evaluate(p, q, groups, depth, b)
		if err != nil {
			return 0, err
		}
		best = min(best, v)
	}
	return best, nil
}

// budget counts explored nodes across all goroutines of one search.
type budget struct {
	max   int64
	nodes atomic.Int64
}

func (b *budget) spend() error {
	if b.nodes.Add(1) > b.max {
		return ErrBudgetExceeded
	}
	return nil
}

func (b *budget) used() int {
	return int(b.nodes.Load())
}

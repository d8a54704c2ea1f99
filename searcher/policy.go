package searcher

import (
	"math/rand"

	"guesswho/game"
)

// Random asks and guesses uniformly at random.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) ChooseQuestion(p *game.Player) (string, error) {
	questions := p.Questions()
	if len(questions) == 0 {
		return "", game.ErrNoQuestions
	}
	return questions[r.rng.Intn(len(questions))], nil
}

func (r *Random) Guess(p *game.Player) string {
	return pickRandom(r.rng, p.Candidates())
}

func (r *Random) String() string {
	return "random"
}

// Greedy asks the question whose answers split the candidates most evenly.
type Greedy struct {
	rng *rand.Rand
}

func NewGreedy(rng *rand.Rand) *Greedy {
	return &Greedy{rng: rng}
}

// ChooseQuestion minimizes the largest answer group; ties go to the earliest question.
func (g *Greedy) ChooseQuestion(p *game.Player) (string, error) {
	questions := p.Questions()
	if len(questions) == 0 {
		return "", game.ErrNoQuestions
	}

	best := ""
	bestSize := p.NumCandidates() + 1
	for _, q := range questions {
		groups, err := p.Partition(q)
		if err != nil {
			return "", err
		}
		if size := largestGroup(groups); size < bestSize {
			best = q
			bestSize = size
		}
	}
	return best, nil
}

func (g *Greedy) Guess(p *game.Player) string {
	return pickRandom(g.rng, p.Candidates())
}

func (g *Greedy) String() string {
	return "greedy"
}

func largestGroup(groups []game.Group) int {
	largest := 0
	for _, group := range groups {
		largest = max(largest, len(group.Candidates))
	}
	return largest
}

// pickRandom falls back to the first candidate without a source of randomness.
func pickRandom(rng *rand.Rand, candidates []string) string {
	if len(candidates) == 0 {
		panic("cannot guess: no candidates left")
	}
	if rng == nil {
		return candidates[0]
	}
	return candidates[rng.Intn(len(candidates))]
}

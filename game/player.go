package game

import (
	"math/rand"

	"golang.org/x/exp/slices"

	"guesswho/catalog"
	"guesswho/utils"
)

// Player holds a secret identity, the questions it may still ask and the candidates
// it still believes could be the opponent's secret.
type Player struct {
	Name       string
	secret     string
	questions  []string
	candidates []string
	catalog    *catalog.Catalog // shared, read-only
	strategy   Strategy
}

// NewPlayer creates a player whose candidates are every identity in c. The question
// slice is copied so that players never share it.
func NewPlayer(name string, c *catalog.Catalog, questions []string, strategy Strategy) *Player {
	if strategy == nil {
		strategy = Poor{}
	}
	return &Player{
		Name:       name,
		questions:  slices.Clone(questions),
		candidates: c.Names(),
		catalog:    c,
		strategy:   strategy,
	}
}

// SelectSecret commits to an identity chosen uniformly from this player's candidates.
func (p *Player) SelectSecret(rng *rand.Rand) string {
	if len(p.candidates) == 0 {
		panic("cannot select secret: no candidates")
	}
	p.secret = p.candidates[rng.Intn(len(p.candidates))]
	return p.secret
}

// SetSecret commits to a given identity.
func (p *Player) SetSecret(name string) {
	p.secret = name
}

func (p *Player) Secret() string {
	return p.secret
}

func (p *Player) Strategy() Strategy {
	return p.strategy
}

// Questions returns a copy of the remaining questions.
func (p *Player) Questions() []string {
	return slices.Clone(p.questions)
}

// Candidates returns a copy of the surviving candidates.
func (p *Player) Candidates() []string {
	return slices.Clone(p.candidates)
}

func (p *Player) HasQuestions() bool {
	return len(p.questions) > 0
}

func (p *Player) NumQuestions() int {
	return len(p.questions)
}

func (p *Player) NumCandidates() int {
	return len(p.candidates)
}

// ChooseQuestion asks the strategy for the next question.
func (p *Player) ChooseQuestion() (string, error) {
	if !p.HasQuestions() {
		return "", ErrNoQuestions
	}
	return p.strategy.ChooseQuestion(p)
}

// Guess asks the strategy for the identity it believes is the opponent's secret.
func (p *Player) Guess() string {
	if len(p.candidates) == 0 {
		panic("cannot guess: no candidates left")
	}
	return p.strategy.Guess(p)
}

// Partition groups the surviving candidates by their answer to question, in order of
// first appearance.
func (p *Player) Partition(question string) ([]Group, error) {
	groups := []Group{}
	index := map[string]int{}
	for _, name := range p.candidates {
		answer, err := p.catalog.Answer(name, question)
		if err != nil {
			return nil, err
		}
		i, ok := index[answer]
		if !ok {
			i = len(groups)
			index[answer] = i
			groups = append(groups, Group{Answer: answer})
		}
		groups[i].Candidates = append(groups[i].Candidates, name)
	}
	return groups, nil
}

// EliminateCandidates removes every candidate whose answer to question differs from
// answer. On error the candidates are left untouched.
func (p *Player) EliminateCandidates(question, answer string) error {
	kept := make([]string, 0, len(p.candidates))
	for _, name := range p.candidates {
		got, err := p.catalog.Answer(name, question)
		if err != nil {
			return err
		}
		if got == answer {
			kept = append(kept, name)
		}
	}
	p.candidates = kept
	return nil
}

// EliminateQuestion removes an asked question. Removing it twice is a programming
// error and panics with a *QuestionNotFoundError.
func (p *Player) EliminateQuestion(question string) {
	i := utils.FindIndex(p.questions, question)
	if i < 0 {
		panic(&QuestionNotFoundError{Player: p.Name, Question: question})
	}
	p.questions = utils.Remove(p.questions, i)
}

// Copy duplicates the mutable state. The catalog and strategy are shared.
func (p *Player) Copy() *Player {
	return &Player{
		Name:       p.Name,
		secret:     p.secret,
		questions:  slices.Clone(p.questions),
		candidates: slices.Clone(p.candidates),
		catalog:    p.catalog,
		strategy:   p.strategy,
	}
}

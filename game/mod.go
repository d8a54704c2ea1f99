package game

// Strategy decides which question a player asks next and whom it guesses.
// Implementations only read the player's own candidates and questions.
type Strategy interface {
	ChooseQuestion(p *Player) (string, error)
	Guess(p *Player) string
}

// Poor is the baseline strategy: the first remaining question and the first surviving candidate.
type Poor struct{}

func (Poor) ChooseQuestion(p *Player) (string, error) {
	if !p.HasQuestions() {
		return "", ErrNoQuestions
	}
	return p.questions[0], nil
}

func (Poor) Guess(p *Player) string {
	if len(p.candidates) == 0 {
		panic("cannot guess: no candidates left")
	}
	return p.candidates[0]
}

func (Poor) String() string {
	return "poor"
}

// Group is the set of candidates that give the same answer to a question.
type Group struct {
	Answer     string
	Candidates []string
}

package experiments

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"guesswho/catalog"
	"guesswho/config"
	"guesswho/engine"
	"guesswho/experiments/metrics"
	"guesswho/game"
	"guesswho/searcher"
)

// MatchUpSummary tallies the games between two agents, whichever seat they played.
type MatchUpSummary struct {
	Agent1 config.AgentConfig
	Agent2 config.AgentConfig
	Games  int
	Wins1  int
	Wins2  int
	Ties   int
}

func (m MatchUpSummary) WinRate1() float64 {
	return rate(m.Wins1, m.Games)
}

func (m MatchUpSummary) WinRate2() float64 {
	return rate(m.Wins2, m.Games)
}

func (m MatchUpSummary) TieRate() float64 {
	return rate(m.Ties, m.Games)
}

func rate(n, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(n) / float64(games)
}

type Summary struct {
	Name     string
	MatchUps []MatchUpSummary
	Dir      string // Where records were written, if anywhere
}

// Run loads the catalog named by cfg and plays every match up.
func Run(cfg config.Experiment) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	full, err := catalog.LoadFile(cfg.Questions)
	if err != nil {
		return Summary{}, err
	}
	questions, err := catalog.QuestionsFile(cfg.Questions)
	if err != nil {
		return Summary{}, err
	}
	if cfg.People != "" {
		ids, err := catalog.LoadIdentitiesFile(cfg.People)
		if err != nil {
			return Summary{}, err
		}
		if _, err := full.Describe(ids); err != nil {
			return Summary{}, fmt.Errorf("failed to match %s against %s: %w", cfg.Questions, cfg.People, err)
		}
		log.Info().Msgf("loaded %d characters with their features", len(ids))
	}
	return RunWithCatalog(cfg, full, questions)
}

// RunWithCatalog plays every match up on samples of full.
func RunWithCatalog(cfg config.Experiment, full *catalog.Catalog, questions []string) (Summary, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	count := 0
	summary := Summary{Name: cfg.Name}
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", cfg.Name)

	for mi, matchUp := range cfg.MatchUps {
		config1, _ := cfg.Agent(matchUp.Agent1)
		config2, _ := cfg.Agent(matchUp.Agent2)
		size := cfg.CatalogSize
		if matchUp.CatalogSize > 0 {
			size = matchUp.CatalogSize
		}
		result := MatchUpSummary{Agent1: config1, Agent2: config2}

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v on %d characters...", mi+1, len(cfg.MatchUps), config1, config2, size)

		for i := 0; i < cfg.Games; i++ {
			pool, err := full.Sample(size, rng)
			if err != nil {
				return summary, fmt.Errorf("matchup %d: %w", mi+1, err)
			}

			// Alternate seats so neither agent always moves first
			seat1, seat2 := config1, config2
			swapped := i%2 == 1
			if swapped {
				seat1, seat2 = config2, config1
			}

			s, err := newSession(seat1, seat2, pool, questions, rng)
			if err != nil {
				return summary, fmt.Errorf("matchup %d: %w", mi+1, err)
			}
			var runner engine.Runner = engine.LocalEngine(s)
			winner, gameMetric, moveMetrics, err := runner.Run()
			if err != nil {
				return summary, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}

			count++
			result.Games++
			switch {
			case winner == s.Player(1).Name && !swapped, winner == s.Player(2).Name && swapped:
				result.Wins1++
			case winner == s.Player(1).Name, winner == s.Player(2).Name:
				result.Wins2++
			default:
				result.Ties++
			}

			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     seat1.ID,
				Agent2:     seat2.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Debug().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(cfg.MatchUps), i+1, winner)
		}

		log.Info().Msgf("completed matchup %d of %d: agent%d won %d, agent%d won %d, %d ties", mi+1, len(cfg.MatchUps), config1.ID, result.Wins1, config2.ID, result.Wins2, result.Ties)
		summary.MatchUps = append(summary.MatchUps, result)
	}

	log.Info().Msgf("completed %s experiment", cfg.Name)

	if cfg.OutputDir == "" {
		return summary, nil
	}
	dir, err := writeRecords(cfg, gameRecords, moveRecords)
	summary.Dir = dir
	return summary, err
}

func writeRecords(cfg config.Experiment, games []metrics.GameRecord, moves []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(cfg.OutputDir, cfg.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(cfg.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), nil
}

// newSession seats two agents on the same pool and has each pick a secret.
func newSession(config1, config2 config.AgentConfig, pool *catalog.Catalog, questions []string, rng *rand.Rand) (*game.Session, error) {
	p1 := game.NewPlayer(fmt.Sprintf("player1:%s", config1.Strategy), pool, questions, NewStrategy(config1, rng))
	p2 := game.NewPlayer(fmt.Sprintf("player2:%s", config2.Strategy), pool, questions, NewStrategy(config2, rng))
	p1.SelectSecret(rng)
	p2.SelectSecret(rng)
	return game.NewSession(p1, p2, pool)
}

// NewStrategy builds the strategy an agent config describes.
func NewStrategy(cfg config.AgentConfig, rng *rand.Rand) game.Strategy {
	switch cfg.Strategy {
	case config.StrategyRandom:
		return searcher.NewRandom(rng)
	case config.StrategyGreedy:
		return searcher.NewGreedy(rng)
	case config.StrategyCrazy:
		return createTreeSearch(cfg, rng)
	default:
		return game.Poor{}
	}
}

func createTreeSearch(cfg config.AgentConfig, rng *rand.Rand) *searcher.TreeSearch {
	options := []searcher.Option{searcher.WithRand(rng), searcher.WithMetrics()}

	if cfg.MaxDepth > 0 {
		options = append(options, searcher.WithMaxDepth(cfg.MaxDepth))
	}
	if cfg.MaxNodes > 0 {
		options = append(options, searcher.WithMaxNodes(cfg.MaxNodes))
	}
	if cfg.MaxCandidates > 0 {
		options = append(options, searcher.WithMaxCandidates(cfg.MaxCandidates))
	}
	if cfg.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(cfg.Goroutines))
	}
	if cfg.Mode == config.ModeExpected {
		options = append(options, searcher.WithMode(searcher.Expected))
	}

	return searcher.NewTreeSearch(options...)
}

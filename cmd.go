package main

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"guesswho/catalog"
	"guesswho/config"
	"guesswho/engine"
	"guesswho/experiments"
	"guesswho/game"
	"guesswho/meta"
)

type Config struct {
	verbose bool

	// play
	questions string
	size      int
	player1   string
	player2   string
	seed      int64
	maxDepth  int
	maxNodes  int

	// experiment
	configPath string
	games      int
	outputDir  string

	// characters
	people string
}

func (c *Config) validate() error {
	for _, s := range []string{c.player1, c.player2} {
		if err := (config.AgentConfig{Strategy: s}).Validate(); err != nil {
			return fmt.Errorf("unknown strategy %q (want poor, random, greedy or crazy)", s)
		}
	}
	if c.size < 1 {
		return fmt.Errorf("invalid size (must be positive): %d", c.size)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "guesswho",
		Short:         "Guess Who games between computer players.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfg.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: GUESSWHO_VERBOSE)")

	cmd.AddCommand(newPlayCmd(cfg), newExperimentCmd(cfg), newCharactersCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("guesswho v{{.Version}}\n")

	bindEnv(cmd.PersistentFlags())
	return cmd
}

func newPlayCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a single game and print every move.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return play(cmd, cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.questions, "questions", "q", "data/questions.csv", "question/answer source (env: GUESSWHO_QUESTIONS)")
	fs.IntVarP(&cfg.size, "size", "n", meta.CATALOG_SIZE, "characters sampled for the game (env: GUESSWHO_SIZE)")
	fs.StringVar(&cfg.player1, "player1", config.StrategyGreedy, "strategy of player 1 (env: GUESSWHO_PLAYER1)")
	fs.StringVar(&cfg.player2, "player2", config.StrategyPoor, "strategy of player 2 (env: GUESSWHO_PLAYER2)")
	fs.Int64Var(&cfg.seed, "seed", 0, "random seed, 0 for the current time (env: GUESSWHO_SEED)")
	fs.IntVar(&cfg.maxDepth, "max-depth", 3, "tree search lookahead in questions (env: GUESSWHO_MAX_DEPTH)")
	fs.IntVar(&cfg.maxNodes, "max-nodes", 250000, "tree search node budget per move (env: GUESSWHO_MAX_NODES)")

	bindEnv(fs)
	return cmd
}

func newExperimentCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Run match ups between agents and report win rates.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return experiment(cmd, cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.configPath, "config", "c", "", "YAML experiment config, defaults built in (env: GUESSWHO_CONFIG)")
	fs.IntVarP(&cfg.games, "games", "g", 0, "override games per match up (env: GUESSWHO_GAMES)")
	fs.StringVarP(&cfg.outputDir, "output", "o", "", "directory for CSV records (env: GUESSWHO_OUTPUT)")

	bindEnv(fs)
	return cmd
}

func newCharactersCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "characters",
		Short: "List the characters and their features.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := catalog.LoadIdentitiesFile(cfg.people)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", id.Name, strings.Join(id.SortedFeatures(), ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfg.people, "people", "p", "data/people.csv", "identity source (env: GUESSWHO_PEOPLE)")

	bindEnv(cmd.Flags())
	return cmd
}

// bindEnv lets GUESSWHO_* variables fill in flags that were not set explicitly.
func bindEnv(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix("GUESSWHO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func play(cmd *cobra.Command, cfg *Config) error {
	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	full, err := catalog.LoadFile(cfg.questions)
	if err != nil {
		return err
	}
	questions, err := catalog.QuestionsFile(cfg.questions)
	if err != nil {
		return err
	}
	pool, err := full.Sample(cfg.size, rng)
	if err != nil {
		return err
	}

	agent := func(strategy string) config.AgentConfig {
		return config.AgentConfig{Strategy: strategy, MaxDepth: cfg.maxDepth, MaxNodes: cfg.maxNodes}
	}
	p1 := game.NewPlayer("player1", pool, questions, experiments.NewStrategy(agent(cfg.player1), rng))
	p2 := game.NewPlayer("player2", pool, questions, experiments.NewStrategy(agent(cfg.player2), rng))
	p1.SelectSecret(rng)
	p2.SelectSecret(rng)

	s, err := game.NewSession(p1, p2, pool)
	if err != nil {
		return err
	}
	log.Info().Msgf("game %s on %d characters (seed %d)", s.ID, pool.Len(), seed)

	winner, gameMetric, moves, err := engine.LocalEngine(s).Run()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range moves {
		fmt.Fprintf(out, "%3d. player%d (%s) asks %q: %s, %d left\n", m.Step, m.Player, s.Player(m.Player).Strategy(), m.Question, m.Answer, m.Candidates)
	}
	fmt.Fprintf(out, "secrets: player1=%s player2=%s\n", p1.Secret(), p2.Secret())
	if winner == meta.TIE {
		fmt.Fprintf(out, "tie after %d moves\n", gameMetric.TotalMoves)
	} else {
		fmt.Fprintf(out, "%s wins after %d moves\n", winner, gameMetric.TotalMoves)
	}
	return nil
}

func experiment(cmd *cobra.Command, cfg *Config) error {
	exp := config.Default()
	if cfg.configPath != "" {
		loaded, err := config.Load(cfg.configPath)
		if err != nil {
			return err
		}
		exp = loaded
	}
	if cfg.games > 0 {
		exp.Games = cfg.games
	}
	if cfg.outputDir != "" {
		exp.OutputDir = cfg.outputDir
	}

	summary, err := experiments.Run(exp)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			return fmt.Errorf("check %s: %w", cfg.configPath, err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range summary.MatchUps {
		fmt.Fprintf(out, "agent%d (%s) vs agent%d (%s): %d games, %.1f%% / %.1f%%, %.1f%% ties\n",
			m.Agent1.ID, m.Agent1.Strategy, m.Agent2.ID, m.Agent2.Strategy, m.Games,
			100*m.WinRate1(), 100*m.WinRate2(), 100*m.TieRate())
	}
	if summary.Dir != "" {
		fmt.Fprintf(out, "records written to %s\n", summary.Dir)
	}
	return nil
}

package main

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/idle-chain/internal/config"
)

var (
	dbPath       string
	stateKey     string
	tickInterval time.Duration
	saveInterval time.Duration
	logLevel     string
	quiet        bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "idle",
		Short: "Idle production chain simulator",
		Long: `An incremental game where producers feed the producer below them
and the last one in the chain generates energy. Progress is saved to a
local SQLite database and keeps accruing between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := config.Default()
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaults.DBPath, "Path to the SQLite save file (env IDLE_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&stateKey, "key", defaults.StateKey, "Key the game is saved under (env IDLE_STATE_KEY)")
	rootCmd.PersistentFlags().DurationVar(&tickInterval, "tick", defaults.TickInterval, "Simulation tick interval (env IDLE_TICK_INTERVAL)")
	rootCmd.PersistentFlags().DurationVar(&saveInterval, "save-interval", defaults.SaveInterval, "Minimum time between saves (env IDLE_SAVE_INTERVAL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn, error (env IDLE_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(
		newPlayCmd(),
		newRunCmd(),
		newStatusCmd(),
		newBuyCmd(),
		newResetCmd(),
		newPlanCmd(),
		newCatalogCmd(),
	)
	return rootCmd
}

// loadConfig reads the environment and lets explicitly set flags win
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("key") {
		cfg.StateKey = stateKey
	}
	if flags.Changed("tick") {
		cfg.TickInterval = tickInterval
	}
	if flags.Changed("save-interval") {
		cfg.SaveInterval = saveInterval
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

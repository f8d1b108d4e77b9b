package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/subset/internal/cli"
	"github.com/aretw0/subset/internal/config"
	"github.com/aretw0/subset/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "subset",
	Short: "Subset converts NFAs into equivalent DFAs",
	Long: `Subset applies the subset construction to nondeterministic finite automata,
including ε-transitions, and prints the resulting DFA as a transition table,
an edge list and the formal five-tuple.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing NFA definitions")
	rootCmd.PersistentFlags().String("config", "", "Config file (default <dir>/"+config.DefaultFile+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("store", "", "Result store: file, memory or redis")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis store")
}

// resolveOptions loads the project configuration and applies persistent flags on top.
func resolveOptions(cmd *cobra.Command) (cli.Options, *slog.Logger, error) {
	flags := cmd.Flags()
	dir, _ := flags.GetString("dir")
	configPath, _ := flags.GetString("config")

	cfg, err := config.Load(dir, configPath)
	if err != nil {
		return cli.Options{}, nil, err
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("store") {
		cfg.Store.Type, _ = flags.GetString("store")
	}
	if flags.Changed("redis-addr") {
		cfg.Store.RedisAddr, _ = flags.GetString("redis-addr")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Options{}, nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cli.Options{}, nil, err
	}
	logger := logging.New(level)
	slog.SetDefault(logger)

	return cli.Options{Dir: dir, Config: cfg}, logger, nil
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/store"
)

// settings and logger are resolved once per invocation by loadSettings.
var (
	settings config.Settings
	logger   = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "advancer",
	Short: "End-of-session advancement for tabletop characters",
	Long: `Advancer walks a character through end-of-session advancement: answer the
session questions, spend the marks they earn on skills, and roll a d20 for
every marked skill. Finished sessions are kept in the character's history
and in the shared advancement log.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ADVANCER_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML settings file (overrides ADVANCER_CONFIG env var)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("as", "", "Participant id to join as (defaults to the configured participant)")
	rootCmd.PersistentFlags().Bool("authority", true, "Write the shared advancement log from this process")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")

	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings resolves settings from defaults, the config file, the
// environment, and finally flags.
func loadSettings(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	required := path != ""
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	s, err := config.Load(path, required)
	if err != nil {
		return err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		s.Debug = true
	}
	if as, _ := cmd.Flags().GetString("as"); as != "" {
		s.Participant = as
	}
	if cmd.Flags().Changed("authority") {
		s.Authority, _ = cmd.Flags().GetBool("authority")
	}
	settings = s
	logger = newLogger(os.Stderr, s.Debug)
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ADVANCER_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by the flags.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docsmith/internal/config"
	"docsmith/internal/logging"
	"docsmith/internal/usage"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	cfg     *config.Config
	logger  *zap.Logger
	tracker *usage.Tracker
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "docsmith",
	Short: "docsmith - adaptive design document interviewer",
	Long: `docsmith interviews you about a software project and assembles a
technical design document scaled to the project's complexity.

Questions are loaded from a YAML catalog. Answers can unlock follow-up
questions, and a complexity analyzer picks how deep the final document
should go.

Run "docsmith interview" to start or resume an interview.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if workspace == "" {
			if workspace, err = os.Getwd(); err != nil {
				return fmt.Errorf("resolve workspace: %w", err)
			}
		}
		if configPath == "" {
			configPath = filepath.Join(workspace, ".docsmith", "config.yaml")
		}

		if cfg, err = config.Load(configPath); err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Initialize(level, cfg.Logging.Format); err != nil {
			return err
		}
		logger = logging.Get("cli")

		if tracker, err = usage.NewTracker(workspace); err != nil {
			return fmt.Errorf("init usage tracker: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tracker != nil {
			_ = tracker.Save()
		}
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: <workspace>/.docsmith/config.yaml)")
}

// resolvePath makes catalog and template paths workspace-relative.
func resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workspace, path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

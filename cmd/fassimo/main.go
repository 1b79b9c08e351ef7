// Command fassimo is the conversational business assistant prototype. Running
// it without arguments starts the interactive chat interface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Fasscorp/FassimoV3/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string
	sessionID string

	// Logger
	logger *zap.Logger
)

const version = "3.0.0"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fassimo",
	Short: "Fassimo - conversational business assistant",
	Long: `Fassimo routes free-text and button-triggered input through a small set of
named flows: a default parse/triage/respond pipeline, a multi-turn onboarding
interview, and a task list. Replies carry optional action buttons; selecting
one feeds its trigger token back into the conversation.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

// versionCmd prints the version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the Fassimo version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fassimo %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "Workspace directory holding .fassimo/")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "local", "Session id to converse under")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tasksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

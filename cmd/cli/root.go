package cli

import (
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/nezoba/nezoba/pkg/config"
	"github.com/nezoba/nezoba/pkg/logging"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Config manager - initialized once and reused
	cfg config.Manager
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "nezoba",
	Short: "Nez-Oba game controller remapper",
	Long: `Nezoba edits, encodes, and decodes the button-to-key mappings
deployed on the nez-oba game controller board.`,
	Version: "dev",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Configure logger based on flags
		var logger logging.Logger
		if quiet {
			logger = logging.NewQuietLogger()
		} else if verbose {
			logger = logging.NewVerboseLogger()
		} else {
			logger = logging.NewDefaultLogger()
		}
		logging.SetGlobalLogger(logger)

		config.LoadEnvFile(".env")
		cfg = config.NewConfigManager()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand provided - print usage
		return cmd.Help()
	},
}

func init() {
	// Global flags available to all commands
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug level)")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")

	// Add CLI subcommands
	RootCmd.AddCommand(NewShowCommand())
	RootCmd.AddCommand(NewExportCommand())
	RootCmd.AddCommand(NewImportCommand())
	RootCmd.AddCommand(NewEditCommand())
}

// expandPath resolves a leading ~ in a user-supplied path.
func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// mappingsPath resolves the mappings file from an optional positional
// argument, falling back to the NEZOBA_MAPPINGS environment variable.
func mappingsPath(args []string) (string, error) {
	if len(args) > 0 {
		return expandPath(args[0]), nil
	}
	path, err := cfg.GetString(config.EnvMappings)
	if err != nil {
		return "", err
	}
	return expandPath(path), nil
}

// projectDir resolves the board software directory from a positional
// argument, falling back to the NEZOBA_PROJECT_DIR environment variable. An
// empty result is allowed: some commands work without a board.
func projectDir(args []string, index int) string {
	if len(args) > index {
		return expandPath(args[index])
	}
	return expandPath(cfg.GetStringWithDefault(config.EnvProjectDir, ""))
}

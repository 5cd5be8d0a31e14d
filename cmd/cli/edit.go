package cli

import (
	"github.com/spf13/cobra"

	"github.com/nezoba/nezoba/cmd/shell"
)

// NewEditCommand creates the edit command, which starts the interactive
// mapping editor.
func NewEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [mappings.yaml]",
		Short: "Edit a mappings file interactively",
		Long: `Edit starts an interactive shell for editing the mappings in a mappings
file: creating, copying, and deleting mappings, and changing the combos
assigned to buttons. When the file is not given as an argument, it is read
from the NEZOBA_MAPPINGS environment variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yamlPath, err := mappingsPath(args)
			if err != nil {
				return err
			}
			return shell.Run(yamlPath)
		},
	}
}

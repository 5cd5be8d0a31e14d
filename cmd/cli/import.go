package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nezoba/nezoba/pkg/encoding"
)

// NewImportCommand creates the import command, which decodes the board
// software's header files back into a mappings file.
func NewImportCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "import <mappings.yaml> <project-dir>",
		Short: "Decode the board software into a mappings file",
		Long: `Import decodes the encoded header files in the project directory and
writes the resulting mappings into a mappings file. An existing mappings
file is backed up unless --overwrite is given.

Arguments not given on the command line are read from the NEZOBA_MAPPINGS
and NEZOBA_PROJECT_DIR environment variables.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			yamlPath, err := mappingsPath(args)
			if err != nil {
				return err
			}
			dir := projectDir(args, 1)
			exporter, err := encoding.NewExporter(dir, yamlPath)
			if err != nil {
				return err
			}
			ms, err := exporter.Decode(!overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Decoded %d mappings to %s\n", ms.Len(), yamlPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite an existing mappings file without a backup")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nezoba/nezoba/pkg/encoding"
)

// NewExportCommand creates the export command, which encodes a mappings file
// into the board software's header files.
func NewExportCommand() *cobra.Command {
	var overwrite bool
	var strictSlots bool

	cmd := &cobra.Command{
		Use:   "export <mappings.yaml> <project-dir>",
		Short: "Encode a mappings file into the board software",
		Long: `Export encodes every mapping in a mappings file and writes one header
file per board slot into the project directory holding the board software.
Existing header files are backed up unless --overwrite is given.

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
			exporter.StrictSlots = strictSlots
			ms, err := exporter.Encode(!overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Encoded %d mappings to %s\n", ms.Len(), dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing header files without backups")
	cmd.Flags().BoolVar(&strictSlots, "strict-slots", false, "fail when the file holds more mappings than the board has slots")
	return cmd
}

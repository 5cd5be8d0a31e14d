package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nezoba/nezoba/pkg/config"
	"github.com/nezoba/nezoba/pkg/encoding"
)

// NewShowCommand creates the show command, which renders a mappings file as
// human-readable pictures of the board.
func NewShowCommand() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show [mappings.yaml]",
		Short: "Display the mappings in a mappings file",
		Long: `Show renders every mapping in a mappings file as a human-readable
picture of the nez-oba board. When the file is not given as an argument,
it is read from the NEZOBA_MAPPINGS environment variable; the default
output width can be set with NEZOBA_WIDTH.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yamlPath, err := mappingsPath(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("width") {
				width = cfg.GetIntWithDefault(config.EnvWidth, width)
			}
			exporter, err := encoding.NewExporter("", yamlPath)
			if err != nil {
				return err
			}
			shown, err := exporter.Show(width)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), shown)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", encoding.DefaultTextWidth, "width of the rendered output")
	return cmd
}

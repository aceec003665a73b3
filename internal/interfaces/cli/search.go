package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k0psutin/gdm-sub000/internal/infrastructure/ui"
)

// NewSearchCommand creates the search command
func NewSearchCommand(a *app) *cobra.Command {
	var godotVersion string

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search the asset library",
		Long: `Search the asset library for plugins matching name. Results are limited to
the engine version of the project unless --godot-version is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assets, err := a.plugins().Search(cmd.Context(), args[0], godotVersion)
			if err != nil {
				return err
			}
			if len(assets) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No plugins found matching %q.\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSearch(assets))
			return nil
		},
	}

	cmd.Flags().StringVar(&godotVersion, "godot-version", "", "Engine version to search for (default from project.godot)")

	return cmd
}

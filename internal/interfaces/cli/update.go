package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k0psutin/gdm-sub000/internal/infrastructure/ui"
)

// NewUpdateCommand creates the update command
func NewUpdateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update asset library plugins to their latest version",
		Long: `Reinstall every asset library plugin whose latest published version is newer
than the installed one. Plugins installed from git are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.plugins().Update(cmd.Context())
		},
	}
}

// NewOutdatedCommand creates the outdated command
func NewOutdatedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "outdated",
		Short: "List installed plugins with their latest version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.plugins().Outdated(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([]ui.OutdatedRow, 0, len(entries))
			for _, e := range entries {
				name := e.Installed.Title
				if name == "" {
					name = e.Key
				}
				rows = append(rows, ui.OutdatedRow{
					Plugin:          name,
					Current:         e.Installed.Version.String(),
					Latest:          e.LatestVersion.String(),
					UpdateAvailable: e.UpdateAvailable,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderOutdated(rows))
			return nil
		},
	}
}

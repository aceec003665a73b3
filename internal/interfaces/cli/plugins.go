package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/k0psutin/gdm-sub000/internal/application/services"
)

// NewInstallCommand creates the install command
func NewInstallCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install every plugin listed in gdm.json",
		Long: `Install every plugin recorded in the lock file into the addons directory
and enable it in project.godot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.plugins().InstallAll(cmd.Context())
		},
	}
}

// NewAddCommand creates the add command
func NewAddCommand(a *app) *cobra.Command {
	var req services.AddRequest

	cmd := &cobra.Command{
		Use:   "add [name] [version]",
		Short: "Add a plugin from the asset library or a git repository",
		Long: `Add one plugin to the project, replacing the installed version of the same
plugin when there is one.

A plugin from the asset library is named either by its title or by --asset-id,
optionally pinned to an exact version. A plugin from git is given by --git and
an optional --ref (default main).`,
		Example: `  # Add the latest version by name
  gdm add gut

  # Add an exact version by asset id
  gdm add --asset-id 1709 --version 9.1.0

  # Add a plugin from git
  gdm add --git https://github.com/bitbrain/beehave.git --ref godot-4.x`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if req.Name != "" {
					return errors.New("name given both as argument and flag")
				}
				req.Name = args[0]
			}
			if len(args) > 1 {
				if req.Version != "" {
					return errors.New("version given both as argument and flag")
				}
				req.Version = args[1]
			}
			return a.plugins().Add(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Asset library title of the plugin")
	cmd.Flags().StringVar(&req.AssetID, "asset-id", "", "Asset library id of the plugin")
	cmd.Flags().StringVar(&req.Version, "version", "", "Exact asset library version to install")
	cmd.Flags().StringVar(&req.GitURL, "git", "", "Git repository URL of the plugin")
	cmd.Flags().StringVar(&req.Ref, "ref", "", "Git branch or tag (default main)")
	cmd.MarkFlagsMutuallyExclusive("name", "asset-id")

	return cmd
}

// NewRemoveCommand creates the remove command
func NewRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove an installed plugin",
		Long: `Remove a plugin's folders from the addons directory, its entry from gdm.json
and its entry from project.godot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.plugins().Remove(cmd.Context(), args[0])
		},
	}
}

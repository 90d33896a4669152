package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitlanes/internal/gui"
)

func (c *cli) viewCommand() *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "view [repo]",
		Short: "Show the commit graph in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.Run(gui.RunConfig{
				RepoPath:   repoArg(args),
				Config:     c.cfg,
				ConfigPath: c.configPath,
				Glob:       c.glob,
				AutoReload: !noWatch,
				Logger:     slog.Default(),
			})
		},
	}
	cmd.Flags().BoolVar(&noWatch, "nowatch", false, "disable automatic reload when the repository changes")
	return cmd
}

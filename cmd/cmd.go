// Package cmd implements the gitlanes command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitlanes/internal/buildinfo"
	"github.com/thiagokokada/gitlanes/internal/config"
)

// cli holds the state shared by every command.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger

	verbose    bool
	configPath string
	glob       string

	cfg config.Config
}

// Run executes the command line with the process arguments.
func Run(ctx context.Context) error {
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{stdout: stdout, stderr: stderr}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (c *cli) rootCommand() *cobra.Command {
	view := c.viewCommand()
	root := &cobra.Command{
		Use:           "gitlanes [repo]",
		Short:         "gitlanes draws the commit graph of a git repository",
		Long:          `gitlanes lays out the commits of a repository in lanes and shows the graph in a window, as SVG, as a terminal table or as a Graphviz graph.`,
		Version:       buildinfo.VersionWithTags(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          view.Args,
		RunE:          view.RunE,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.SetVersionTemplate("gitlanes {{.Version}}\n")
	root.Flags().AddFlagSet(view.Flags())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/gitlanes/config.toml)")
	flags.StringVar(&c.glob, "glob", "", "only load commits reachable from references matching this glob")

	root.AddCommand(view)
	root.AddCommand(c.svgCommand())
	root.AddCommand(c.logCommand())
	root.AddCommand(c.refsCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.checkoutCommand())
	root.AddCommand(c.applyCommand())
	return root
}

// setup installs the logger and reads the settings file.
func (c *cli) setup() error {
	level := log.InfoLevel
	if c.verbose {
		level = log.DebugLevel
	}
	c.logger = log.NewWithOptions(c.stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	slog.SetDefault(slog.New(c.logger))

	if c.configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			slog.Debug("no default settings file", slog.Any("error", err))
			c.cfg = config.Default()
			return nil
		}
		c.configPath = path
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	c.cfg = cfg
	slog.Debug("settings loaded", slog.String("path", c.configPath))
	return nil
}

func repoArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

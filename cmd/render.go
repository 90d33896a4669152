package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitlanes/internal/config"
	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/render"
	"github.com/thiagokokada/gitlanes/internal/session"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// batchDark only honours an explicit dark setting; files and pipes do not
// follow the desktop theme.
func batchDark(cfg config.Config) bool {
	return config.ThemePreferenceFromString(cfg.Theme.Mode) == config.ThemeDark
}

func (c *cli) newSession(repoPath string) (*session.Session, error) {
	svc, err := git.Open(repoPath)
	if err != nil {
		return nil, err
	}
	return session.New(svc, session.Options{
		Glob:             c.glob,
		Tick:             c.cfg.Layout.Tick.Duration,
		PlacementTimeout: c.cfg.Layout.PlacementTimeout.Duration,
		Geometry:         c.cfg.Geometry(),
		Palette:          c.cfg.Palette(batchDark(c.cfg)),
		StashName:        c.cfg.UI.StashDisplayName,
		Logger:           slog.Default().With(slog.String("repo", svc.Name())),
	}), nil
}

// withGeneration loads the repository, lays it out completely and calls fn
// with the settled generation.
func (c *cli) withGeneration(ctx context.Context, repoPath string, fn func(*session.Generation) error) error {
	sess, err := c.newSession(repoPath)
	if err != nil {
		return err
	}
	defer sess.Clear()
	gen, err := sess.Load(ctx)
	if err != nil {
		return err
	}
	if err := gen.Settle(ctx); err != nil {
		return fmt.Errorf("lay out commits: %w", err)
	}
	for _, u := range gen.Unplaced() {
		if errors.Is(u.Err, graph.ErrNotInStore) {
			continue
		}
		slog.Warn("reference not shown", slog.String("ref", u.Name), slog.String("target", u.Target))
	}
	return fn(gen)
}

// writeOutput writes data to path, or to stdout for "" and "-".
func (c *cli) writeOutput(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(c.stdout)
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("wrote output", slog.String("path", path), slog.Int("bytes", buf.Len()))
	return nil
}

func (c *cli) svgCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "svg [repo]",
		Short: "Render the commit graph and its references as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := render.SVGOptions{}
			if batchDark(c.cfg) {
				opts = render.SVGOptions{Background: "#1e1e1e", Text: "#dddddd"}
			}
			return c.withGeneration(cmd.Context(), repoArg(args), func(gen *session.Generation) error {
				return c.writeOutput(output, func(w io.Writer) error {
					return render.SVG(w, gen.Store, gen.Registry, opts)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *cli) logCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log [repo]",
		Short: "Print the commit graph as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGeneration(cmd.Context(), repoArg(args), func(gen *session.Generation) error {
				return render.Log(c.stdout, gen.Store, gen.Registry, render.LogOptions{Limit: limit})
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most this many commits (0 prints all)")
	return cmd
}

func (c *cli) refsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refs [repo]",
		Short: "Print the references grouped by type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withGeneration(cmd.Context(), repoArg(args), func(gen *session.Generation) error {
				return render.Refs(c.stdout, gen.Registry)
			})
		},
	}
}

func (c *cli) dotCommand() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "dot [repo]",
		Short: "Export the commit graph as Graphviz DOT or render it with Graphviz",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatDOT, formatSVG)
			}
			ctx := cmd.Context()
			return c.withGeneration(ctx, repoArg(args), func(gen *session.Generation) error {
				dot := render.DOT(gen.Store, gen.Registry)
				return c.writeOutput(output, func(w io.Writer) error {
					if format == formatDOT {
						_, err := io.WriteString(w, dot)
						return err
					}
					data, err := render.RenderDOT(ctx, dot)
					if err != nil {
						return err
					}
					_, err = w.Write(data)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitlanes/internal/refs"
)

// qualifyRef expands a short branch name such as "main" to refs/heads/main.
// Names inside a known namespace are returned unchanged.
func qualifyRef(name string) string {
	if _, ok := refs.Classify(name); ok {
		return name
	}
	return refs.LocalBranch.Prefix() + name
}

func (c *cli) checkoutCommand() *cobra.Command {
	var repo string
	cmd := &cobra.Command{
		Use:   "checkout <ref>",
		Short: "Check out a local branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.newSession(repo)
			if err != nil {
				return err
			}
			name := qualifyRef(args[0])
			if _, err := sess.Checkout(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Checked out %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&repo, "repo", ".", "repository path")
	return cmd
}

func (c *cli) applyCommand() *cobra.Command {
	var repo string
	cmd := &cobra.Command{
		Use:   "apply <source-ref> <target-ref>",
		Short: "Drop one reference on another (merge, push, pull or apply a stash)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.newSession(repo)
			if err != nil {
				return err
			}
			source, target := qualifyRef(args[0]), qualifyRef(args[1])
			if err := sess.Drop(cmd.Context(), source, target); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Dropped %s on %s\n", source, target)
			return nil
		},
	}
	cmd.Flags().StringVar(&repo, "repo", ".", "repository path")
	return cmd
}

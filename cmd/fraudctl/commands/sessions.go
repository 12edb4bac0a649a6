package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSessionsCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Args:  cobra.NoArgs,
		Short: "Session maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Args:  cobra.NoArgs,
		Short: "Delete expired session rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				n, err := rt.Sessions.PurgeExpired(ctx, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired sessions\n", n)
				return nil
			})
		},
	})
	return cmd
}

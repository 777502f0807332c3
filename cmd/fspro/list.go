package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fspro/internal/archive"
	"github.com/bamsammich/fspro/internal/stats"
)

func newListCmd(a *app) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "list [flags] <archive>",
		Short: "List the entries of a tar.gz archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			entries, err := archive.List(ctx, args[0])
			if err != nil {
				return err
			}

			if !long {
				for _, e := range entries {
					fmt.Fprintln(a.stdout, e.Path)
				}
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				name := e.Path
				if e.LinkTarget != "" {
					name += " -> " + e.LinkTarget
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					e.Mode, stats.FormatBytes(e.Size), e.ModTime.Format("2006-01-02 15:04"), name)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "show mode, size and modification time")
	return cmd
}

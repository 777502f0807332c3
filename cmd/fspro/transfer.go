package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fspro/internal/event"
	"github.com/bamsammich/fspro/internal/stats"
	"github.com/bamsammich/fspro/internal/transfer"
)

func newTransferCmd(a *app) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "transfer [flags] <source-dir> <dest-dir>",
		Short: "Move the children of a directory into another directory",
		Long: `Transfer moves the immediate children of source-dir that pass the
name filter into dest-dir, creating it if needed. An entry of the same
name already in dest-dir is replaced as a whole, directories included.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			src, dst := args[0], args[1]

			opts, err := ff.resolve(a.cfg.Transfer.Filter())
			if err != nil {
				return err
			}
			slog.Debug("transfer", "src", src, "dst", dst,
				"includes", opts.Includes, "excludes", opts.Excludes)

			return a.runOp("transfer", func(ctx context.Context, events chan<- event.Event, collector *stats.Collector) error {
				return transfer.Run(ctx, src, dst, transfer.Options{
					Events: events,
					Stats:  collector,
					Filter: opts,
				})
			})
		},
	}

	ff.register(cmd)
	return cmd
}

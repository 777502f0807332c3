package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fspro/internal/archive"
	"github.com/bamsammich/fspro/internal/event"
	"github.com/bamsammich/fspro/internal/stats"
)

func newUnpackCmd(a *app) *cobra.Command {
	var bwLimitStr string

	cmd := &cobra.Command{
		Use:   "unpack [flags] <archive> <dest-dir>",
		Short: "Extract a tar.gz archive into a directory",
		Long: `Unpack extracts every entry of a gzip-compressed tar archive beneath
dest-dir, creating it if needed. Existing files of the same name are
replaced. Entries that would land outside dest-dir are refused.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]

			bwLimit, err := a.bwLimit(cmd, bwLimitStr)
			if err != nil {
				return err
			}
			slog.Debug("unpack", "src", src, "dst", dst)

			return a.runOp("unpack", func(ctx context.Context, events chan<- event.Event, collector *stats.Collector) error {
				return archive.Unpack(ctx, src, dst, archive.UnpackOptions{
					Events:  events,
					Stats:   collector,
					BWLimit: bwLimit,
				})
			})
		},
	}

	cmd.Flags().StringVar(&bwLimitStr, "bwlimit", "", "limit archive read rate (e.g. 10M, 1G)")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fspro/internal/archive"
	"github.com/bamsammich/fspro/internal/event"
	"github.com/bamsammich/fspro/internal/filter"
	"github.com/bamsammich/fspro/internal/stats"
)

func newPackCmd(a *app) *cobra.Command {
	var (
		ff         filterFlags
		level      int
		bwLimitStr string
	)

	cmd := &cobra.Command{
		Use:   "pack [flags] <source-dir> <archive>",
		Short: "Pack the children of a directory into a tar.gz archive",
		Long: `Pack writes the immediate children of source-dir into a gzip-compressed
tar archive. --include and --exclude match children by exact name; a
directory that passes is packed with its whole subtree.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]

			opts, err := ff.resolve(a.cfg.Pack.Filter())
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("level") && a.cfg.Pack.Level != nil {
				level = *a.cfg.Pack.Level
			}
			bwLimit, err := a.bwLimit(cmd, bwLimitStr)
			if err != nil {
				return err
			}

			slog.Debug("pack", "src", src, "dst", dst,
				"includes", opts.Includes, "excludes", opts.Excludes, "level", level)

			err = a.runOp("pack", func(ctx context.Context, events chan<- event.Event, collector *stats.Collector) error {
				return archive.Pack(ctx, src, dst, archive.PackOptions{
					Events:  events,
					Stats:   collector,
					Filter:  opts,
					Level:   level,
					BWLimit: bwLimit,
				})
			})
			if err != nil {
				return err
			}

			if digest, err := archive.Digest(dst); err != nil {
				slog.Warn("could not hash archive", "path", dst, "error", err)
			} else {
				slog.Info("archive written", "path", dst, "blake3", digest)
			}
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().IntVarP(&level, "level", "l", 0, "gzip level 1 (fastest) to 9 (smallest); 0 uses the default")
	cmd.Flags().StringVar(&bwLimitStr, "bwlimit", "", "limit archive write rate (e.g. 10M, 1G)")
	return cmd
}

// bwLimit parses --bwlimit, falling back to the config file when the flag
// was not given.
func (a *app) bwLimit(cmd *cobra.Command, raw string) (int64, error) {
	if !cmd.Flags().Changed("bwlimit") {
		return a.cfg.Pack.BWLimitBytes()
	}
	n, err := filter.ParseSize(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid --bwlimit: %w", err)
	}
	return n, nil
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fspro/internal/fsinfo"
	"github.com/bamsammich/fspro/internal/ui"
)

func newInfoCmd(a *app) *cobra.Command {
	var omitSize bool

	cmd := &cobra.Command{
		Use:   "info [flags] <path>...",
		Short: "Print file metadata as JSON",
		Long: `Info prints one JSON object per path with its names, kind, size,
timestamps (unix milliseconds) and detected MIME type. Directory sizes
are computed recursively unless --omit-size is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			enc := json.NewEncoder(a.stdout)
			if ui.IsTerminal(a.stdout) {
				enc.SetIndent("", "  ")
			}
			for _, p := range args {
				md, err := fsinfo.GetMetadata(p, fsinfo.MetadataOptions{OmitSize: omitSize})
				if err != nil {
					return fmt.Errorf("info %s: %w", p, err)
				}
				if err := enc.Encode(md); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&omitSize, "omit-size", false, "skip the recursive size computation")
	return cmd
}

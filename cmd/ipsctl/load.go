package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/ipskit/cmd/ipsctl/logger"
	"github.com/joshuapare/ipskit/pkg/ips"
)

// maxParallelReads bounds how many patch files are read at once.
const maxParallelReads = 8

// readPatches reads every path concurrently and returns them in argument order.
// Decoding happens later, sequentially, in ips.LoadAll.
func readPatches(ctx context.Context, paths []string) ([]ips.NamedPatch, error) {
	patches := make([]ips.NamedPatch, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read patch %s: %w", path, err)
			}
			logger.Debug("read patch", "path", path, "bytes", len(data))
			patches[i] = ips.NamedPatch{Name: path, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return patches, nil
}

// commandContext returns the context cobra attached to cmd, or Background
// when the command is run directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// outputPath places name in the configured output directory, if any.
func outputPath(name string) string {
	if cfg.OutputDir == "" {
		return name
	}
	return filepath.Join(cfg.OutputDir, filepath.Base(name))
}

// reportConflicts warns about overlapping writes between patches.
func reportConflicts(conflicts []ips.Conflict) {
	if len(conflicts) == 0 {
		return
	}
	printWarn("%d overlapping writes between patches; later patches win\n", len(conflicts))
	for _, c := range conflicts {
		logger.Warn("patch conflict", "a", c.A.Patch, "b", c.B.Patch, "offset", c.B.Record.Offset)
		printVerbose("  %s\n", c)
	}
}

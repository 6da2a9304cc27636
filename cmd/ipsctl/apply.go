package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ipskit/cmd/ipsctl/logger"
	"github.com/joshuapare/ipskit/internal/mmfile"
	"github.com/joshuapare/ipskit/internal/writer"
	"github.com/joshuapare/ipskit/pkg/ips"
)

var (
	applyOutput string
	applyStrict bool
	applyBackup bool

	// dryRun is shared by apply and merge.
	dryRun bool
)

func init() {
	cmd := newApplyCmd()
	cmd.Flags().StringVarP(&applyOutput, "output", "o", "", "Output file (default <rom>.patched<ext>)")
	cmd.Flags().BoolVar(&applyStrict, "strict", false, "Fail when patches overlap each other")
	cmd.Flags().BoolVarP(&applyBackup, "backup", "b", false, "Back up an existing output file to .bak")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Apply in memory without writing anything")
	rootCmd.AddCommand(cmd)
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <rom> <patch>...",
		Short: "Apply one or more IPS patches to a ROM",
		Long: `The apply command applies IPS patches to a ROM image and writes the
patched image to a new file. Patches are applied in the order given; where
they overlap, the later patch wins.

The ROM itself is never modified unless it is also the output file.

Example:
  ipsctl apply game.gba seed.ips
  ipsctl apply game.gba base.ips hacks.ips -o game_hacked.gba
  ipsctl apply game.gba base.ips hacks.ips --strict`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args)
		},
	}
	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	romPath := args[0]
	patchPaths := args[1:]
	outPath := applyOutput
	if outPath == "" {
		outPath = outputPath(defaultPatchedName(romPath))
	}
	strict := applyStrict || cfg.Strict

	printVerbose("ROM: %s\n", romPath)
	printVerbose("Patches: %v\n", patchPaths)

	var res *ips.ApplyResult
	var err error
	if len(patchPaths) == 1 && !dryRun {
		res, err = ips.ApplyFile(romPath, patchPaths[0], outPath, &ips.ApplyOptions{
			CreateBackup: applyBackup,
			OnRecord:     logRecord,
		})
	} else {
		res, err = applyMany(cmd, romPath, patchPaths, outPath, strict)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(applySummary(romPath, patchPaths, res))
	}
	if dryRun {
		printOK("Patched %s (dry run, nothing written)\n", romPath)
	} else {
		printOK("Patched %s -> %s\n", romPath, res.OutputPath)
	}
	printInfo("  Records: %d (%d RLE)\n", res.Records, res.RLERecords)
	printInfo("  Bytes written: %s\n", humanize.Comma(int64(res.BytesWritten)))
	if res.Grown {
		printInfo("  Image grew: %s -> %s\n",
			humanize.IBytes(uint64(res.SourceSize)), humanize.IBytes(uint64(res.OutputSize)))
	}
	return nil
}

func applyMany(cmd *cobra.Command, romPath string, patchPaths []string, outPath string, strict bool) (*ips.ApplyResult, error) {
	patches, err := readPatches(commandContext(cmd), patchPaths)
	if err != nil {
		return nil, err
	}
	set, err := ips.LoadAll(patches, &ips.LoadOptions{Strict: strict})
	if err != nil {
		return nil, err
	}
	for _, name := range set.Skipped {
		printWarn("skipping %s: already applied\n", name)
	}
	reportConflicts(set.Conflicts)

	rom, unmap, err := mmfile.Map(romPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rom %s: %w", romPath, err)
	}
	defer unmap()

	out, stats := set.Patch(rom, logRecord)
	if err := writeImage(outPath, out, applyBackup); err != nil {
		return nil, err
	}
	return &ips.ApplyResult{ApplyStats: stats, OutputPath: outPath, Conflicts: set.Conflicts}, nil
}

func logRecord(rec ips.Record) {
	logger.Debug("record", "kind", rec.Kind.String(), "offset", rec.Offset, "len", rec.Len())
}

// imageSink returns where output for path goes. With --dry-run it is kept in
// memory and discarded.
func imageSink(path string) writer.Sink {
	if dryRun {
		return &writer.MemWriter{}
	}
	return &writer.FileWriter{Path: path}
}

// writeImage writes data atomically, first copying an existing file to .bak
// when backup is set.
func writeImage(path string, data []byte, backup bool) error {
	if backup && !dryRun {
		if old, err := os.ReadFile(path); err == nil {
			bak := &writer.FileWriter{Path: path + ".bak"}
			if err := bak.WriteImage(old); err != nil {
				return fmt.Errorf("failed to create backup at %s.bak: %w", path, err)
			}
		}
	}
	if err := imageSink(path).WriteImage(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("wrote file", "path", path, "bytes", len(data), "dry_run", dryRun)
	return nil
}

// defaultPatchedName turns "dir/game.gba" into "dir/game.patched.gba".
func defaultPatchedName(romPath string) string {
	ext := filepath.Ext(romPath)
	return strings.TrimSuffix(romPath, ext) + ".patched" + ext
}

type applyJSON struct {
	ROM          string   `json:"rom"`
	Patches      []string `json:"patches"`
	Output       string   `json:"output"`
	Records      int      `json:"records"`
	RLERecords   int      `json:"rle_records"`
	BytesWritten int      `json:"bytes_written"`
	SourceSize   int      `json:"source_size"`
	OutputSize   int      `json:"output_size"`
	Conflicts    int      `json:"conflicts"`
}

func applySummary(romPath string, patchPaths []string, res *ips.ApplyResult) applyJSON {
	return applyJSON{
		ROM:          romPath,
		Patches:      patchPaths,
		Output:       res.OutputPath,
		Records:      res.Records,
		RLERecords:   res.RLERecords,
		BytesWritten: res.BytesWritten,
		SourceSize:   res.SourceSize,
		OutputSize:   res.OutputSize,
		Conflicts:    len(res.Conflicts),
	}
}

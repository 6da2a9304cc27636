package main

import (
	"errors"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ipskit/pkg/ips"
)

var (
	mergeOutput string
	mergeStrict bool
	mergeBackup bool
)

func init() {
	cmd := newMergeCmd()
	cmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output patch file (required)")
	cmd.Flags().BoolVar(&mergeStrict, "strict", false, "Fail when patches overlap each other")
	cmd.Flags().BoolVarP(&mergeBackup, "backup", "b", false, "Back up an existing output file to .bak")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Merge in memory without writing anything")
	rootCmd.AddCommand(cmd)
}

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <patch>... -o <out.ips>",
		Short: "Combine several IPS patches into one",
		Long: `The merge command decodes IPS patches in order and re-encodes all of their
records into a single container. Applying the merged patch gives the same
image as applying the inputs one after another.

A file given twice is only merged once.

Example:
  ipsctl merge base.ips hacks.ips -o combined.ips
  ipsctl merge base.ips hacks.ips -o combined.ips --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args)
		},
	}
	return cmd
}

type mergeJSON struct {
	Inputs    []string `json:"inputs"`
	Skipped   []string `json:"skipped,omitempty"`
	Output    string   `json:"output"`
	Records   int      `json:"records"`
	Size      int      `json:"size"`
	Conflicts int      `json:"conflicts"`
}

func runMerge(cmd *cobra.Command, args []string) error {
	if mergeOutput == "" {
		return errors.New("an output file is required (-o)")
	}
	outPath := outputPath(mergeOutput)
	if mergeOutput != outPath {
		printVerbose("Writing to %s\n", outPath)
	}

	patches, err := readPatches(commandContext(cmd), args)
	if err != nil {
		return err
	}
	set, err := ips.LoadAll(patches, &ips.LoadOptions{Strict: mergeStrict || cfg.Strict})
	if err != nil {
		return err
	}
	for _, name := range set.Skipped {
		printWarn("skipping %s: listed more than once\n", name)
	}
	reportConflicts(set.Conflicts)

	data, err := set.Encode()
	if err != nil {
		return err
	}
	if err := writeImage(outPath, data, mergeBackup); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(mergeJSON{
			Inputs:    set.Names,
			Skipped:   set.Skipped,
			Output:    outPath,
			Records:   set.Len(),
			Size:      len(data),
			Conflicts: len(set.Conflicts),
		})
	}
	if dryRun {
		printOK("Merged %d patches (dry run, nothing written)\n", len(set.Names))
	} else {
		printOK("Merged %d patches -> %s\n", len(set.Names), outPath)
	}
	printInfo("  Records: %d\n", set.Len())
	printInfo("  Size: %s\n", humanize.IBytes(uint64(len(data))))
	return nil
}

package ips

import (
	"fmt"
	"os"

	"github.com/joshuapare/ipskit/internal/mmfile"
	"github.com/joshuapare/ipskit/internal/writer"
)

// ApplyOptions controls ApplyFile and ApplyFiles.
type ApplyOptions struct {
	// OnRecord is called for every decoded record before it is written.
	OnRecord func(Record)

	// OnProgress is called by ApplyFiles before each patch is loaded.
	OnProgress func(current, total int)

	// Strict makes ApplyFiles fail when patches overlap each other.
	Strict bool

	// CreateBackup copies an existing output file to <outPath>.bak before
	// it is replaced.
	CreateBackup bool
}

// ApplyResult reports what an apply did.
type ApplyResult struct {
	ApplyStats
	OutputPath string
	Conflicts  []Conflict
}

// ApplyFile applies the patch at patchPath to the ROM at romPath and writes
// the result to outPath. The output is written atomically, and only after the
// whole patch applied; on error nothing is written.
//
// Example:
//
//	res, err := ips.ApplyFile("ff-dos.gba", "seed.ips", "ff-dos_patched.gba", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d records, %d bytes written\n", res.Records, res.BytesWritten)
func ApplyFile(romPath, patchPath, outPath string, opts *ApplyOptions) (*ApplyResult, error) {
	if opts == nil {
		opts = &ApplyOptions{}
	}
	if !fileExists(romPath) {
		return nil, fmt.Errorf("rom file not found: %s", romPath)
	}
	if !fileExists(patchPath) {
		return nil, fmt.Errorf("patch file not found: %s", patchPath)
	}

	rom, unmapROM, err := mmfile.Map(romPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rom %s: %w", romPath, err)
	}
	defer unmapROM()

	patch, unmapPatch, err := mmfile.Map(patchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read patch %s: %w", patchPath, err)
	}
	defer unmapPatch()

	r, err := Open(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to open patch %s: %w", patchPath, err)
	}
	p := newPatcher(rom, opts.OnRecord)
	if err := p.drain(r); err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", patchPath, err)
	}

	if err := writeOutput(outPath, p.out, opts.CreateBackup); err != nil {
		return nil, err
	}
	return &ApplyResult{ApplyStats: p.stats, OutputPath: outPath}, nil
}

// ApplyFiles applies several patches to the ROM at romPath in order and
// writes the result to outPath. Later patches win where they overlap earlier
// ones; the overlaps are reported in ApplyResult.Conflicts, or returned as an
// error when opts.Strict is set.
func ApplyFiles(romPath string, patchPaths []string, outPath string, opts *ApplyOptions) (*ApplyResult, error) {
	if opts == nil {
		opts = &ApplyOptions{}
	}
	if !fileExists(romPath) {
		return nil, fmt.Errorf("rom file not found: %s", romPath)
	}

	total := len(patchPaths)
	patches := make([]NamedPatch, 0, total)
	for i, path := range patchPaths {
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, total)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read patch %s (file %d/%d): %w", path, i+1, total, err)
		}
		patches = append(patches, NamedPatch{Name: path, Data: data})
	}

	set, err := LoadAll(patches, &LoadOptions{Strict: opts.Strict})
	if err != nil {
		return nil, err
	}

	rom, unmapROM, err := mmfile.Map(romPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rom %s: %w", romPath, err)
	}
	defer unmapROM()

	out, stats := set.Patch(rom, opts.OnRecord)
	if err := writeOutput(outPath, out, opts.CreateBackup); err != nil {
		return nil, err
	}
	return &ApplyResult{ApplyStats: stats, OutputPath: outPath, Conflicts: set.Conflicts}, nil
}

func writeOutput(outPath string, data []byte, backup bool) error {
	if backup && fileExists(outPath) {
		backupPath := outPath + ".bak"
		if err := copyFile(outPath, backupPath); err != nil {
			return fmt.Errorf("failed to create backup at %s: %w", backupPath, err)
		}
	}
	w := &writer.FileWriter{Path: outPath}
	if err := w.WriteImage(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	w := &writer.FileWriter{Path: dst}
	return w.WriteImage(data)
}

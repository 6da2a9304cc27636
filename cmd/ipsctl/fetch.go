package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ipskit/internal/remote"
	"github.com/joshuapare/ipskit/internal/session"
	"github.com/joshuapare/ipskit/pkg/ips"
)

var (
	fetchSeed      string
	fetchFlags     string
	fetchFragment  string
	fetchServer    string
	fetchSavePatch string
	fetchOutput    string
)

func init() {
	cmd := newFetchCmd()
	cmd.Flags().StringVar(&fetchSeed, "seed", "", "Seed to request (random when empty)")
	cmd.Flags().StringVar(&fetchFlags, "flags", "", "Compact flag string, e.g. OpSvXp15")
	cmd.Flags().StringVar(&fetchFragment, "fragment", "", "Page fragment \"seed=...&flags=...\" (overrides --seed and --flags)")
	cmd.Flags().StringVar(&fetchServer, "server", "", "Patch service base URL (default from config)")
	cmd.Flags().StringVar(&fetchSavePatch, "save-patch", "", "Also save the downloaded patch to this file")
	cmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Output file (default <rom>_<flags>_<seed>.gba)")
	rootCmd.AddCommand(cmd)
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <rom>",
		Short: "Download a randomized patch and apply it to a ROM",
		Long: `The fetch command asks the patch service for the IPS container that matches
a seed and a set of flags, validates it, and applies it to the ROM.

The output name encodes the flags and the seed so the same randomization can
be requested again.

Example:
  ipsctl fetch game.gba
  ipsctl fetch game.gba --seed 1a2b --flags OpSvXp15
  ipsctl fetch game.gba --fragment 'seed=1a2b&flags=BXp10' --save-patch seed.ips`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args)
		},
	}
	return cmd
}

type fetchJSON struct {
	ROM        string `json:"rom"`
	Server     string `json:"server"`
	Seed       string `json:"seed"`
	Flags      string `json:"flags"`
	Fragment   string `json:"fragment"`
	PatchSize  int    `json:"patch_size"`
	PatchFile  string `json:"patch_file,omitempty"`
	Output     string `json:"output"`
	OutputSize int    `json:"output_size"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	romPath := args[0]

	opts, err := fetchOptions()
	if err != nil {
		return err
	}
	server := fetchServer
	if server == "" {
		server = cfg.Server
	}
	if server == "" {
		server = DefaultServer
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("failed to read rom %s: %w", romPath, err)
	}

	printVerbose("Requesting seed %s (%s) from %s\n", opts.Seed, opts.Flags(), server)
	patch, err := remote.New(server).FetchPatch(commandContext(cmd), opts)
	if err != nil {
		return err
	}

	out, err := ips.ApplyBytes(rom, patch)
	if err != nil {
		return fmt.Errorf("patch from %s: %w", server, err)
	}

	if fetchSavePatch != "" {
		if err := writeImage(fetchSavePatch, patch, false); err != nil {
			return err
		}
	}
	outPath := fetchOutput
	if outPath == "" {
		outPath = outputPath(filepath.Join(filepath.Dir(romPath), session.OutputName(romPath, opts)))
	}
	if err := writeImage(outPath, out, false); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(fetchJSON{
			ROM:        romPath,
			Server:     server,
			Seed:       opts.Seed,
			Flags:      opts.Flags(),
			Fragment:   opts.Fragment(),
			PatchSize:  len(patch),
			PatchFile:  fetchSavePatch,
			Output:     outPath,
			OutputSize: len(out),
		})
	}
	printOK("Randomized %s -> %s\n", romPath, outPath)
	printInfo("  Seed: %s\n", opts.Seed)
	printInfo("  Flags: %s\n", opts.Flags())
	printInfo("  Patch: %s\n", humanize.IBytes(uint64(len(patch))))
	printInfo("  Share: #%s\n", opts.Fragment())
	return nil
}

// fetchOptions resolves the session from --fragment, or from --seed and
// --flags, filling in a random seed when none is given.
func fetchOptions() (session.Options, error) {
	var opts session.Options
	var err error
	switch {
	case fetchFragment != "":
		opts, err = session.ParseFragment(fetchFragment)
	case fetchFlags != "":
		opts, err = session.ParseFlags(fetchFlags)
		opts.Seed = fetchSeed
	default:
		opts = session.Options{Seed: fetchSeed, ExpScale: session.DefaultExpScale}
	}
	if err != nil {
		return session.Options{}, err
	}
	opts.EnsureSeed()
	return opts, nil
}

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ipskit/pkg/ips"
)

var infoRecords bool

func init() {
	cmd := newInfoCmd()
	cmd.Flags().BoolVarP(&infoRecords, "records", "r", false, "List every record")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <patch>...",
		Short: "Validate IPS patches and report what they change",
		Long: `The info command decodes IPS patches completely and reports the number
of records, how many use run-length encoding, the range of offsets they touch,
and the size of the image they require.

Example:
  ipsctl info seed.ips
  ipsctl info seed.ips --records
  ipsctl info base.ips hacks.ips --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args)
		},
	}
	return cmd
}

// patchInfo summarizes one container.
type patchInfo struct {
	File         string       `json:"file"`
	Size         int          `json:"size"`
	Records      int          `json:"records"`
	Literal      int          `json:"literal"`
	RLE          int          `json:"rle"`
	Empty        int          `json:"empty"`
	PayloadBytes int          `json:"payload_bytes"`
	MinOffset    uint32       `json:"min_offset"`
	MinImageSize int          `json:"min_image_size"`
	Trailing     int          `json:"trailing_bytes"`
	List         []recordInfo `json:"records_list,omitempty"`
}

type recordInfo struct {
	Pos    int    `json:"pos"`
	Offset uint32 `json:"offset"`
	Kind   string `json:"kind"`
	Len    int    `json:"len"`
	Fill   *byte  `json:"fill,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	patches, err := readPatches(commandContext(cmd), args)
	if err != nil {
		return err
	}

	infos := make([]patchInfo, 0, len(patches))
	for _, p := range patches {
		printVerbose("Decoding %s\n", p.Name)
		info, err := describe(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		infos = append(infos, info)
	}

	if jsonOut {
		if len(infos) == 1 {
			return printJSON(infos[0])
		}
		return printJSON(infos)
	}

	for _, info := range infos {
		printInfo("\nPatch Information:\n")
		printInfo("  File: %s\n", info.File)
		printInfo("  Size: %s\n", humanize.IBytes(uint64(info.Size)))
		printInfo("  Records: %d (%d literal, %d RLE, %d empty)\n",
			info.Records, info.Literal, info.RLE, info.Empty)
		printInfo("  Payload: %s\n", humanize.IBytes(uint64(info.PayloadBytes)))
		if info.Records > 0 {
			printInfo("  Offsets: 0x%06X - 0x%06X\n", info.MinOffset, info.MinImageSize)
			printInfo("  Minimum image size: %s\n", humanize.IBytes(uint64(info.MinImageSize)))
		}
		if info.Trailing > 0 {
			printInfo("  Trailing bytes after EOF: %d\n", info.Trailing)
		}
		for _, rec := range info.List {
			if rec.Fill != nil {
				printInfo("    @%-8d 0x%06X  rle      %6d x %02X\n", rec.Pos, rec.Offset, rec.Len, *rec.Fill)
			} else {
				printInfo("    @%-8d 0x%06X  literal  %6d\n", rec.Pos, rec.Offset, rec.Len)
			}
		}
		printOK("  ✓ Structure valid\n")
	}
	return nil
}

// describe decodes p completely.
func describe(p ips.NamedPatch) (patchInfo, error) {
	info := patchInfo{File: p.Name, Size: len(p.Data)}
	r, err := ips.Open(p.Data)
	if err != nil {
		return info, err
	}
	for rec, err := range r.All() {
		if err != nil {
			return info, err
		}
		if info.Records == 0 || rec.Offset < info.MinOffset {
			info.MinOffset = rec.Offset
		}
		info.Records++
		switch rec.Kind {
		case ips.KindRLE:
			info.RLE++
		default:
			info.Literal++
		}
		if rec.Len() == 0 {
			info.Empty++
		}
		info.PayloadBytes += rec.Len()
		if rec.End() > info.MinImageSize {
			info.MinImageSize = rec.End()
		}
		if infoRecords {
			ri := recordInfo{Pos: rec.Pos, Offset: rec.Offset, Kind: rec.Kind.String(), Len: rec.Len()}
			if rec.Kind == ips.KindRLE {
				fill := rec.Fill
				ri.Fill = &fill
			}
			info.List = append(info.List, ri)
		}
	}
	info.Trailing = len(r.Trailing())
	return info, nil
}

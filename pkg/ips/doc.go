/*
Package ips reads and applies IPS patch containers to ROM images.

# Container Format

An IPS container starts with the five bytes "PATCH", followed by records and
terminated by the three bytes "EOF":

	Literal record:   offset(3, BE) length(2, BE, != 0) data(length)
	Run-length:       offset(3, BE) 0x0000 count(2, BE) fill(1)
	End marker:       0x45 0x4F 0x46

# Quick Start

Apply a patch held in memory:

	patched, err := ips.ApplyBytes(rom, patch)
	if err != nil {
	    log.Fatal(err)
	}

Walk the records yourself:

	r, err := ips.Open(patch)
	if err != nil {
	    log.Fatal(err) // errors.Is(err, ips.ErrInvalidFormat)
	}
	for rec, err := range r.All() {
	    if err != nil {
	        log.Fatal(err) // errors.Is(err, ips.ErrUnexpectedEndOfStream)
	    }
	    fmt.Println(rec)
	}

Apply files on disk:

	res, err := ips.ApplyFile("game.gba", "seed.ips", "game_patched.gba", nil)

# Semantics

Records are applied in container order; where two records overlap, the later
one wins. A record may write past the end of the source image, in which case
the result grows and any gap is zero-filled. The source slice is never
modified, and a failed apply returns no data.

A run-length record with a zero count is accepted and writes nothing.
*/
package ips

package ips

import (
	"fmt"
	"slices"
)

// NamedPatch is a container together with the name it was loaded from.
type NamedPatch struct {
	Name string
	Data []byte
}

// LoadOptions controls LoadAll behavior.
type LoadOptions struct {
	// Strict turns any conflict between patches into an error.
	Strict bool
}

// Source identifies a record within a Set.
type Source struct {
	Patch  string
	Record Record
}

// Conflict describes two records from different patches that write at least
// one common position. A was loaded before B, so B wins when the set is applied.
type Conflict struct {
	A, B Source
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s (%s) overlaps %s (%s)", c.A.Patch, c.A.Record, c.B.Patch, c.B.Record)
}

// Set is the combination of several containers, decoded in load order.
type Set struct {
	// Names lists the patches that were loaded, in order.
	Names []string
	// Skipped lists patches ignored because their name was already loaded.
	Skipped []string
	// Conflicts lists overlapping writes between different patches.
	Conflicts []Conflict

	records []Source
}

// LoadAll decodes every patch in order. A patch whose name was already loaded
// is skipped. Overlapping records from different patches are collected in
// Set.Conflicts; with opts.Strict the first conflict set is returned as an
// error matching ErrConflict instead.
//
// Example:
//
//	set, err := ips.LoadAll([]ips.NamedPatch{
//	    {Name: "base.ips", Data: base},
//	    {Name: "hacks.ips", Data: hacks},
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	patched := set.Apply(rom)
func LoadAll(patches []NamedPatch, opts *LoadOptions) (*Set, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	set := &Set{}
	seen := make(map[string]bool, len(patches))
	for _, p := range patches {
		if seen[p.Name] {
			set.Skipped = append(set.Skipped, p.Name)
			continue
		}
		seen[p.Name] = true

		r, err := Open(p.Data)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p.Name, err)
		}
		records, err := r.Records()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p.Name, err)
		}
		set.Names = append(set.Names, p.Name)
		for _, rec := range records {
			set.records = append(set.records, Source{Patch: p.Name, Record: rec})
		}
	}

	set.Conflicts = findConflicts(set.records)
	if opts.Strict && len(set.Conflicts) > 0 {
		return nil, &Error{
			Kind: ErrKindConflict,
			Msg:  ErrConflict.Msg,
			Pos:  -1,
			Err:  fmt.Errorf("%d overlapping writes, first: %s", len(set.Conflicts), set.Conflicts[0]),
		}
	}
	return set, nil
}

// Len returns the number of records in the set.
func (s *Set) Len() int { return len(s.records) }

// Sources returns every record with the patch it came from, in load order.
func (s *Set) Sources() []Source {
	return slices.Clone(s.records)
}

// Records returns every record in load order.
func (s *Set) Records() []Record {
	out := make([]Record, len(s.records))
	for i, src := range s.records {
		out[i] = src.Record
	}
	return out
}

// Apply returns a patched copy of source; later patches win where they overlap.
func (s *Set) Apply(source []byte) []byte {
	out, _ := s.Patch(source, nil)
	return out
}

// Patch is Apply with per-record callbacks and statistics.
func (s *Set) Patch(source []byte, onRecord func(Record)) ([]byte, ApplyStats) {
	p := newPatcher(source, onRecord)
	for _, src := range s.records {
		p.write(src.Record)
	}
	return p.out, p.stats
}

// Encode writes the combined records as a single container.
func (s *Set) Encode() ([]byte, error) {
	return Encode(s.Records())
}

// findConflicts sweeps the records in offset order, keeping the ones whose
// range is still open, and pairs overlapping records from different patches.
func findConflicts(records []Source) []Conflict {
	type entry struct {
		idx int
		src Source
	}
	sorted := make([]entry, 0, len(records))
	for i, src := range records {
		if src.Record.Len() > 0 {
			sorted = append(sorted, entry{idx: i, src: src})
		}
	}
	slices.SortStableFunc(sorted, func(a, b entry) int {
		if a.src.Record.Offset != b.src.Record.Offset {
			if a.src.Record.Offset < b.src.Record.Offset {
				return -1
			}
			return 1
		}
		return a.idx - b.idx
	})

	var conflicts []Conflict
	var open []entry
	for _, cur := range sorted {
		start := int(cur.src.Record.Offset)
		open = slices.DeleteFunc(open, func(e entry) bool {
			return e.src.Record.End() <= start
		})
		for _, prev := range open {
			if prev.src.Patch == cur.src.Patch {
				continue
			}
			a, b := prev, cur
			if a.idx > b.idx {
				a, b = b, a
			}
			conflicts = append(conflicts, Conflict{A: a.src, B: b.src})
		}
		open = append(open, cur)
	}
	return conflicts
}

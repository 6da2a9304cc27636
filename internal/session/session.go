// Package session encodes the randomizer options that select a patch: a seed,
// a set of feature flags, and an experience scale. The patch core never reads
// these; they only travel between the user, the page fragment and the patch
// service.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
)

// DefaultExpScale is the experience scale in percent when none is given.
const DefaultExpScale = 100

// Options selects one randomized patch.
type Options struct {
	Seed string

	OriginalProgression bool // Op
	StandardShops       bool // Sv
	StandardTreasure    bool // Tv
	DefaultGear         bool // Gv
	DefaultBosses       bool // B
	NewItems            bool // Ni

	// ExpScale is the level-up rate in percent of normal, in steps of 10.
	ExpScale int
}

// Default returns options with a fresh seed and normal experience.
func Default() Options {
	return Options{Seed: NewSeed(), ExpScale: DefaultExpScale}
}

// NewSeed returns a random 32-bit seed in lowercase hex.
func NewSeed() string {
	return strconv.FormatUint(uint64(rand.Uint32()), 16)
}

// EnsureSeed fills in a random seed when none is set.
func (o *Options) EnsureSeed() {
	if o.Seed == "" {
		o.Seed = NewSeed()
	}
}

// Validate reports options the patch service would reject.
func (o Options) Validate() error {
	if o.ExpScale < 10 {
		return fmt.Errorf("session: experience scale %d%% must be at least 10%%", o.ExpScale)
	}
	if o.ExpScale%10 != 0 {
		return fmt.Errorf("session: experience scale %d%% must be a multiple of 10", o.ExpScale)
	}
	return nil
}

// Flags returns the compact flag string, e.g. "OpSvBXp15".
func (o Options) Flags() string {
	var sb strings.Builder
	if o.OriginalProgression {
		sb.WriteString("Op")
	}
	if o.StandardShops {
		sb.WriteString("Sv")
	}
	if o.StandardTreasure {
		sb.WriteString("Tv")
	}
	if o.DefaultGear {
		sb.WriteString("Gv")
	}
	if o.DefaultBosses {
		sb.WriteString("B")
	}
	if o.NewItems {
		sb.WriteString("Ni")
	}
	sb.WriteString("Xp")
	sb.WriteString(strconv.Itoa(o.ExpScale / 10))
	return sb.String()
}

// ParseFlags decodes a flag string produced by Flags. The returned options
// have no seed. A missing Xp token means DefaultExpScale.
func ParseFlags(s string) (Options, error) {
	o := Options{ExpScale: DefaultExpScale}
	for i := 0; i < len(s); {
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, "Op"):
			o.OriginalProgression = true
			i += 2
		case strings.HasPrefix(rest, "Sv"):
			o.StandardShops = true
			i += 2
		case strings.HasPrefix(rest, "Tv"):
			o.StandardTreasure = true
			i += 2
		case strings.HasPrefix(rest, "Gv"):
			o.DefaultGear = true
			i += 2
		case strings.HasPrefix(rest, "Ni"):
			o.NewItems = true
			i += 2
		case strings.HasPrefix(rest, "B"):
			o.DefaultBosses = true
			i++
		case strings.HasPrefix(rest, "Xp"):
			j := 2
			for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
				j++
			}
			if j == 2 {
				return Options{}, fmt.Errorf("session: flag Xp at %d has no value", i)
			}
			n, err := strconv.Atoi(rest[2:j])
			if err != nil {
				return Options{}, fmt.Errorf("session: flag Xp at %d: %w", i, err)
			}
			o.ExpScale = n * 10
			i += j
		default:
			return Options{}, fmt.Errorf("session: unknown flag %q at %d", rest[:1], i)
		}
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Fragment returns the location fragment form, "seed=<seed>&flags=<flags>",
// without the leading '#'.
func (o Options) Fragment() string {
	return "seed=" + url.QueryEscape(o.Seed) + "&flags=" + o.Flags()
}

// ErrNoSeed is returned by ParseFragment when the fragment carries no seed.
var ErrNoSeed = errors.New("session: fragment has no seed")

// ParseFragment decodes a fragment produced by Fragment. A leading '#' is
// ignored, as are unknown parts.
func ParseFragment(fragment string) (Options, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	o := Options{ExpScale: DefaultExpScale}
	for _, part := range strings.Split(fragment, "&") {
		switch {
		case strings.HasPrefix(part, "seed="):
			seed, err := url.QueryUnescape(strings.TrimPrefix(part, "seed="))
			if err != nil {
				return Options{}, fmt.Errorf("session: seed: %w", err)
			}
			o.Seed = seed
		case strings.HasPrefix(part, "flags="):
			seed := o.Seed
			parsed, err := ParseFlags(strings.TrimPrefix(part, "flags="))
			if err != nil {
				return Options{}, err
			}
			o = parsed
			o.Seed = seed
		}
	}
	if o.Seed == "" {
		return Options{}, ErrNoSeed
	}
	return o, nil
}

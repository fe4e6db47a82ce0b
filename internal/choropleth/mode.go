package choropleth

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownColorMode = errors.New("unknown color mode")

// ColorMode selects one of the two mutually exclusive encodings.
type ColorMode int

const (
	IntensityOnly ColorMode = iota
	ByIdeology
)

func (m ColorMode) String() string {
	switch m {
	case IntensityOnly:
		return "intensity"
	case ByIdeology:
		return "ideology"
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// ParseColorMode accepts "intensity" and "ideology" (plus a few spellings
// used by older clients). Empty input defaults to ByIdeology.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ideology", "by_ideology", "by-ideology":
		return ByIdeology, nil
	case "intensity", "populism", "intensity_only", "populism_only":
		return IntensityOnly, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColorMode, s)
}

func (m ColorMode) MarshalText() ([]byte, error) {
	switch m {
	case IntensityOnly, ByIdeology:
		return []byte(m.String()), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownColorMode, int(m))
}

func (m *ColorMode) UnmarshalText(b []byte) error {
	v, err := ParseColorMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// encoding computes the fill of a resolved record under one mode.
type encoding interface {
	fill(rec MetricRecord) Color
	// filters reports whether the ideology filter dims non-matching records.
	filters() bool
}

type intensityEncoding struct{}

func (intensityEncoding) fill(rec MetricRecord) Color { return IntensityColor(rec.Score) }
func (intensityEncoding) filters() bool               { return false }

type ideologyEncoding struct{}

func (ideologyEncoding) fill(rec MetricRecord) Color { return IdeologyColor(rec.Ideology, rec.Score) }
func (ideologyEncoding) filters() bool               { return true }

// encoding is resolved once per pass. Modes only come from the
// constants or ParseColorMode, so anything else is a programming error.
func (m ColorMode) encoding() encoding {
	switch m {
	case IntensityOnly:
		return intensityEncoding{}
	case ByIdeology:
		return ideologyEncoding{}
	}
	panic(fmt.Sprintf("choropleth: %v", m))
}

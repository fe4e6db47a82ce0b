package choropleth

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is a populism score in [0,2] that may be absent.
type Score struct {
	Value float64
	Valid bool
}

// ScoreOf converts a nullable float into a Score. NaN is treated as absent.
func ScoreOf(v *float64) Score {
	if v == nil {
		return Score{}
	}
	return NewScore(*v)
}

// NewScore returns a present score unless v is NaN.
func NewScore(v float64) Score {
	if math.IsNaN(v) {
		return Score{}
	}
	return Score{Value: v, Valid: true}
}

func (s Score) ok() bool { return s.Valid && !math.IsNaN(s.Value) }

type Ideology int8

const (
	Left   Ideology = -1
	Center Ideology = 0
	Right  Ideology = 1
)

func (i Ideology) String() string {
	switch i {
	case Left:
		return "Left"
	case Center:
		return "Center"
	case Right:
		return "Right"
	}
	return "Ideology(" + strconv.Itoa(int(i)) + ")"
}

// IdeologyOf maps the dataset's left-right code onto an Ideology.
// Codes outside {-1,0,1} are unknown and yield nil.
func IdeologyOf(code *int) *Ideology {
	if code == nil {
		return nil
	}
	switch *code {
	case -1, 0, 1:
		i := Ideology(*code)
		return &i
	}
	return nil
}

// ParseIdeology accepts the numeric codes and the labels (case-insensitive).
func ParseIdeology(s string) (Ideology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "-1", "left":
		return Left, nil
	case "0", "center", "centre":
		return Center, nil
	case "1", "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown ideology %q", s)
}

// Label returns the display label, or "" when the ideology is unknown.
func Label(i *Ideology) string {
	if i == nil {
		return ""
	}
	switch *i {
	case Left, Center, Right:
		return i.String()
	}
	return ""
}

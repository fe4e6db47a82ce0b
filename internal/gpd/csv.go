package gpd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmptyDataset  = errors.New("dataset has no rows")
	ErrMissingColumn = errors.New("missing required column")
)

var requiredColumns = []string{"country", "leader", "yearbegin", "yearend"}

// ParseCSV reads the GPD wide export. Empty cells and NA/NaN are treated
// as missing; a yearend of "current" maps to CurrentYear.
func ParseCSV(r io.Reader) ([]LeaderTerm, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var out []LeaderTerm
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := csvRow{cols: cols, rec: rec}
		t, err := row.term()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, ErrEmptyDataset
	}
	return out, nil
}

type csvRow struct {
	cols map[string]int
	rec  []string
}

func (r csvRow) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	v := strings.TrimSpace(r.rec[i])
	if isNA(v) {
		return ""
	}
	return v
}

func (r csvRow) optStr(col string) *string {
	v := r.str(col)
	if v == "" {
		return nil
	}
	return &v
}

func (r csvRow) optFloat(col string) *float64 {
	v := r.str(col)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

func (r csvRow) optInt(col string) *int {
	f := r.optFloat(col)
	if f == nil {
		return nil
	}
	i := int(math.Round(*f))
	return &i
}

func isNA(v string) bool {
	switch strings.ToLower(v) {
	case "na", "nan", "n/a", "null", "none":
		return true
	}
	return false
}

func (r csvRow) term() (LeaderTerm, error) {
	t := LeaderTerm{
		Country:      r.str("country"),
		Leader:       r.str("leader"),
		Party:        r.optStr("party"),
		LR:           r.optInt("lr"),
		StartOfTerm:  r.str("startofterm"),
		EndOfTerm:    r.str("endofterm"),
		YearEnd:      r.str("yearend"),
		WBRegion:     r.str("wb_region"),
		Region:       r.str("region"),
		TotalAverage: r.optFloat("totalaverage"),
		Speeches:     make(map[SpeechType]SpeechScores, len(SpeechKinds)),
	}
	if t.Country == "" {
		return LeaderTerm{}, errors.New("empty country")
	}
	if p := r.optInt("president"); p != nil {
		t.President = *p == 1
	}
	if v := r.optInt("term"); v != nil {
		t.Term = *v
	}
	yb := r.optInt("yearbegin")
	if yb == nil {
		return LeaderTerm{}, fmt.Errorf("%s: bad yearbegin", t.Country)
	}
	t.YearBegin = *yb
	switch {
	case strings.EqualFold(t.YearEnd, "current"):
		t.YearEndNumeric = CurrentYear
	default:
		ye := r.optInt("yearend")
		if ye == nil {
			return LeaderTerm{}, fmt.Errorf("%s: bad yearend %q", t.Country, t.YearEnd)
		}
		t.YearEndNumeric = *ye
	}

	for _, kind := range SpeechKinds {
		k := string(kind)
		s := SpeechScores{
			File:    r.optStr(k + "_file"),
			Average: r.optFloat(k + "_average"),
		}
		for i := range s.Scores {
			s.Scores[i] = r.optFloat(k + "_" + strconv.Itoa(i+1))
		}
		t.Speeches[kind] = s
	}
	return t, nil
}

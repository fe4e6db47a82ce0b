package gpd

import "context"

// TermFilter narrows the stored terms. Nil/empty fields match everything.
// The year bounds select terms overlapping [YearStart, YearEnd].
type TermFilter struct {
	Country     string
	Leader      string
	YearStart   *int
	YearEnd     *int
	MinPopulism *float64
	Ideology    *int
}

type Store interface {
	// ReplaceTerms swaps the whole dataset atomically.
	ReplaceTerms(ctx context.Context, terms []LeaderTerm) error
	Terms(ctx context.Context, f TermFilter) ([]LeaderTerm, error)
	Count(ctx context.Context) (int, error)

	Countries(ctx context.Context) ([]string, error)
	Regions(ctx context.Context) (regions, wbRegions []string, err error)
	Leaders(ctx context.Context, country string) ([]Leader, error)
}

// Match applies f to one term with the same semantics as the SQL store.
func (f TermFilter) Match(t LeaderTerm) bool {
	switch {
	case f.Country != "" && t.Country != f.Country:
		return false
	case f.Leader != "" && t.Leader != f.Leader:
		return false
	case f.YearEnd != nil && t.YearBegin > *f.YearEnd:
		return false
	case f.YearStart != nil && t.YearEndNumeric < *f.YearStart:
		return false
	case f.MinPopulism != nil && (t.TotalAverage == nil || *t.TotalAverage < *f.MinPopulism):
		return false
	case f.Ideology != nil && (t.LR == nil || *t.LR != *f.Ideology):
		return false
	}
	return true
}

// FilterTerms is the in-memory counterpart of Store.Terms, for callers
// working straight from a CSV file.
func FilterTerms(terms []LeaderTerm, f TermFilter) []LeaderTerm {
	out := []LeaderTerm{}
	for _, t := range terms {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// MapDataFrom runs a map query over already-loaded terms.
func MapDataFrom(terms []LeaderTerm, q MapQuery) []MapDataItem {
	q.SpeechType = ParseSpeechType(string(q.SpeechType))
	return AggregateMap(FilterTerms(terms, q.filter()), q)
}

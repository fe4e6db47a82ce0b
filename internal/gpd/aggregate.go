package gpd

import (
	"sort"
)

// MapQuery is one combination of the map controls.
type MapQuery struct {
	YearStart    *int
	YearEnd      *int
	SpeechType   SpeechType
	TimeWeighted bool
	Ideology     *int
}

func (q MapQuery) filter() TermFilter {
	return TermFilter{YearStart: q.YearStart, YearEnd: q.YearEnd, Ideology: q.Ideology}
}

// AggregateMap averages the selected score per country. Terms must
// already be restricted to the query's window; the result is sorted by
// country.
func AggregateMap(terms []LeaderTerm, q MapQuery) []MapDataItem {
	byCountry := map[string][]LeaderTerm{}
	var order []string
	for _, t := range terms {
		if _, ok := byCountry[t.Country]; !ok {
			order = append(order, t.Country)
		}
		byCountry[t.Country] = append(byCountry[t.Country], t)
	}
	sort.Strings(order)

	from, to := deref(q.YearStart), deref(q.YearEnd)
	out := make([]MapDataItem, 0, len(order))
	for _, c := range order {
		ts := byCountry[c]
		item := MapDataItem{
			Country:  c,
			Region:   firstNonEmpty(ts, func(t LeaderTerm) string { return t.Region }),
			WBRegion: firstNonEmpty(ts, func(t LeaderTerm) string { return t.WBRegion }),
			Ideology: DominantIdeology(ts),
			NumTerms: len(ts),
		}
		var sum, weight float64
		for _, t := range ts {
			s := t.ScoreFor(q.SpeechType)
			if s == nil {
				continue
			}
			w := 1.0
			if q.TimeWeighted {
				if y := t.Years(from, to); y > 0 {
					w = float64(y)
				}
			}
			sum += w * *s
			weight += w
		}
		if weight > 0 {
			avg := sum / weight
			item.AvgPopulism = &avg
		}
		out = append(out, item)
	}
	return out
}

// DominantIdeology is the most frequent left-right code; ties go to the
// code of the most recent term among the tied ones.
func DominantIdeology(terms []LeaderTerm) *int {
	counts := map[int]int{}
	best := 0
	for _, t := range terms {
		if t.LR == nil {
			continue
		}
		counts[*t.LR]++
		if counts[*t.LR] > best {
			best = counts[*t.LR]
		}
	}
	if best == 0 {
		return nil
	}
	latest := append([]LeaderTerm(nil), terms...)
	sort.SliceStable(latest, func(i, j int) bool { return latest[i].YearBegin > latest[j].YearBegin })
	for _, t := range latest {
		if t.LR != nil && counts[*t.LR] == best {
			v := *t.LR
			return &v
		}
	}
	return nil
}

func firstNonEmpty(ts []LeaderTerm, get func(LeaderTerm) string) string {
	for _, t := range ts {
		if v := get(t); v != "" {
			return v
		}
	}
	return "Unknown"
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Summarize computes dataset-wide statistics.
func Summarize(terms []LeaderTerm) Summary {
	s := Summary{
		TotalRecords: len(terms),
		Regions:      map[string]int{},
		SpeechTypes:  map[SpeechType]int{},
	}
	for _, k := range SpeechKinds {
		s.SpeechTypes[k] = 0
	}
	if len(terms) == 0 {
		return s
	}
	countries := map[string]struct{}{}
	leaders := map[string]struct{}{}
	var scores []float64
	s.YearRange = YearRange{Min: terms[0].YearBegin, Max: terms[0].YearEndNumeric}
	for _, t := range terms {
		countries[t.Country] = struct{}{}
		leaders[t.Leader] = struct{}{}
		if t.YearBegin < s.YearRange.Min {
			s.YearRange.Min = t.YearBegin
		}
		if t.YearEndNumeric > s.YearRange.Max {
			s.YearRange.Max = t.YearEndNumeric
		}
		if t.TotalAverage != nil {
			scores = append(scores, *t.TotalAverage)
		}
		if t.Region != "" {
			s.Regions[t.Region]++
		}
		for _, k := range SpeechKinds {
			if t.Speeches[k].File != nil {
				s.SpeechTypes[k]++
			}
		}
	}
	s.TotalCountries = len(countries)
	s.TotalLeaders = len(leaders)
	s.PopulismStats = stats(scores)
	return s
}

func stats(xs []float64) PopulismStats {
	if len(xs) == 0 {
		return PopulismStats{}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	var sum float64
	for _, x := range sorted {
		sum += x
	}
	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return PopulismStats{
		Mean:   sum / float64(n),
		Median: median,
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// BuildTimeline orders a country's terms by first year.
func BuildTimeline(country string, terms []LeaderTerm) Timeline {
	sorted := append([]LeaderTerm(nil), terms...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].YearBegin < sorted[j].YearBegin })
	tl := Timeline{Country: country, Timeline: make([]TimelineItem, 0, len(sorted))}
	for _, t := range sorted {
		item := TimelineItem{
			Leader:        t.Leader,
			Party:         t.Party,
			YearStart:     t.YearBegin,
			YearEnd:       t.YearEndNumeric,
			Term:          t.Term,
			Ideology:      t.LR,
			Campaign:      t.Speeches[SpeechCampaign].Average,
			Famous:        t.Speeches[SpeechFamous].Average,
			International: t.Speeches[SpeechInternational].Average,
			Ribbon:        t.Speeches[SpeechRibbon].Average,
		}
		if t.TotalAverage != nil {
			item.TotalPopulism = *t.TotalAverage
		}
		tl.Timeline = append(tl.Timeline, item)
	}
	tl.Count = len(tl.Timeline)
	return tl
}

// SpeechQuery filters the speech listing. Zero values match everything.
type SpeechQuery struct {
	Country    string
	Ideology   *int
	SpeechType SpeechType
}

// ListSpeeches derives the sampled speech files from the *_file columns.
func ListSpeeches(terms []LeaderTerm, q SpeechQuery) []SpeechItem {
	sorted := append([]LeaderTerm(nil), terms...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Country != sorted[j].Country {
			return sorted[i].Country < sorted[j].Country
		}
		return sorted[i].YearBegin < sorted[j].YearBegin
	})
	out := []SpeechItem{}
	for _, t := range sorted {
		if q.Country != "" && t.Country != q.Country {
			continue
		}
		if q.Ideology != nil && (t.LR == nil || *t.LR != *q.Ideology) {
			continue
		}
		for _, kind := range SpeechKinds {
			if q.SpeechType != "" && q.SpeechType != SpeechTotal && q.SpeechType != kind {
				continue
			}
			sp := t.Speeches[kind]
			if sp.File == nil {
				continue
			}
			out = append(out, SpeechItem{
				Filename:      *sp.File,
				Country:       t.Country,
				Leader:        t.Leader,
				Party:         t.Party,
				Ideology:      t.LR,
				IdeologyLabel: ideologyLabel(t.LR),
				SpeechType:    kind,
				PopulismScore: sp.Average,
				YearStart:     t.YearBegin,
				YearEnd:       t.YearEndNumeric,
				Term:          t.Term,
			})
		}
	}
	return out
}

func ideologyLabel(lr *int) string {
	if lr == nil {
		return "Unknown"
	}
	switch *lr {
	case -1:
		return "Left"
	case 0:
		return "Center"
	case 1:
		return "Right"
	}
	return "Unknown"
}

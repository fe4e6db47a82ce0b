package gpd

import "github.com/mind-engage/populism-atlas/internal/choropleth"

// MetricRecords converts map data into the choropleth snapshot shape.
func MetricRecords(items []MapDataItem) []choropleth.MetricRecord {
	out := make([]choropleth.MetricRecord, len(items))
	for i, it := range items {
		out[i] = choropleth.MetricRecord{
			Country:  it.Country,
			Score:    choropleth.ScoreOf(it.AvgPopulism),
			Ideology: choropleth.IdeologyOf(it.Ideology),
			Region:   it.Region,
			WBRegion: it.WBRegion,
			NumTerms: it.NumTerms,
		}
	}
	return out
}

// Snapshot indexes one map-data result for name resolution.
func Snapshot(items []MapDataItem) *choropleth.Index {
	return choropleth.NewIndex(MetricRecords(items))
}

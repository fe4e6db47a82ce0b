package gpd

import (
	"testing"

	"github.com/mind-engage/populism-atlas/internal/choropleth"
)

func TestSnapshot_ResolvesSampleCountries(t *testing.T) {
	idx := Snapshot(AggregateMap(loadSample(t), MapQuery{}))
	if idx.Len() != 5 {
		t.Fatalf("Len = %d", idx.Len())
	}
	r := choropleth.NewResolver(choropleth.DefaultAliases())

	us, ok := r.Resolve("United States of America", idx)
	if !ok || us.Country != "United States" || !us.Score.Valid || us.Ideology == nil || *us.Ideology != choropleth.Right {
		t.Errorf("US = %+v, %v", us, ok)
	}
	chad, ok := r.Resolve("Chad", idx)
	if !ok || chad.Score.Valid || chad.Ideology != nil {
		t.Errorf("Chad should resolve with no score: %+v", chad)
	}
	if _, ok := r.Resolve("Greenland", idx); ok {
		t.Error("Greenland resolved")
	}
}

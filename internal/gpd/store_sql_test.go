package gpd

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mind-engage/populism-atlas/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	h, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func seededStore(t *testing.T) *SQLStore {
	t.Helper()
	s := NewSQLStore(openTestDB(t), string(db.DriverSQLite))
	if err := s.ReplaceTerms(context.Background(), loadSample(t)); err != nil {
		t.Fatalf("ReplaceTerms: %v", err)
	}
	return s
}

func TestSQLStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	want := loadSample(t)

	got, err := s.Terms(ctx, TermFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Terms (-want +got):\n%s", diff)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 8 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestSQLStore_ReplaceIsWholesale(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	if err := s.ReplaceTerms(ctx, loadSample(t)[:2]); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 2 {
		t.Errorf("Count after replace = %d, want 2", n)
	}
}

func TestSQLStore_TermsFilter(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	leaders := func(t *testing.T, f TermFilter) []string {
		t.Helper()
		terms, err := s.Terms(ctx, f)
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, tt := range terms {
			out = append(out, tt.Leader)
		}
		return out
	}

	cases := []struct {
		name string
		f    TermFilter
		want []string
	}{
		{"country", TermFilter{Country: "Brazil"}, []string{"Lula", "Bolsonaro", "Lula"}},
		{"leader", TermFilter{Leader: "Obama"}, []string{"Obama"}},
		{"overlap includes current", TermFilter{YearStart: intp(2024)}, []string{"Lula"}},
		{"window", TermFilter{YearStart: intp(2018), YearEnd: intp(2020)}, []string{"Bolsonaro", "Trump", "Johnson", "Deby"}},
		{"min populism", TermFilter{MinPopulism: f64p(1.0)}, []string{"Bolsonaro", "Morales"}},
		{"ideology", TermFilter{Ideology: intp(0)}, []string{"Obama"}},
	}
	sample := loadSample(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, leaders(t, tc.f)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
			// the in-memory filter must agree with SQL
			var mem []string
			for _, tt := range FilterTerms(sample, tc.f) {
				mem = append(mem, tt.Leader)
			}
			if diff := cmp.Diff(tc.want, mem); diff != "" {
				t.Errorf("FilterTerms (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSQLStore_Lookups(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	countries, err := s.Countries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Bolivia", "Brazil", "Chad", "UK", "United States"}, countries); diff != "" {
		t.Errorf("Countries (-want +got):\n%s", diff)
	}

	regions, wb, err := s.Regions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Latin America", "North America", "Western Europe"}, regions); diff != "" {
		t.Errorf("regions (-want +got):\n%s", diff)
	}
	if len(wb) != 4 {
		t.Errorf("wb regions = %v", wb)
	}

	br, err := s.Leaders(ctx, "Brazil")
	if err != nil {
		t.Fatal(err)
	}
	if len(br) != 2 || br[0].Leader != "Bolsonaro" || br[1].Leader != "Lula" {
		t.Errorf("Leaders(Brazil) = %+v", br)
	}
	all, _ := s.Leaders(ctx, "")
	if len(all) != 7 {
		t.Errorf("Leaders() = %d, want 7", len(all))
	}
}

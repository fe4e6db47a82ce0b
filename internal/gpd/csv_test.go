package gpd

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func loadSample(t *testing.T) []LeaderTerm {
	t.Helper()
	f, err := os.Open("testdata/gpd_sample.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	terms, err := ParseCSV(f)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	return terms
}

func TestParseCSV_Sample(t *testing.T) {
	terms := loadSample(t)
	if len(terms) != 8 {
		t.Fatalf("rows = %d, want 8", len(terms))
	}

	lula := terms[2]
	if lula.Leader != "Lula" || lula.YearEnd != "current" || lula.YearEndNumeric != CurrentYear {
		t.Errorf("current term: %+v", lula)
	}
	if lula.Term != 3 || !lula.President || lula.LR == nil || *lula.LR != -1 {
		t.Errorf("term/president/lr: %+v", lula)
	}
	if got := lula.Speeches[SpeechRibbon]; got.File == nil || *got.File != "BR_Lula_R.txt" || got.Average == nil || *got.Average != 0.7 {
		t.Errorf("ribbon speech: %+v", got)
	}
	if lula.Speeches[SpeechCampaign].File != nil {
		t.Error("NA file should be nil")
	}

	bols := terms[1]
	if s := bols.Speeches[SpeechCampaign]; s.Scores[0] == nil || *s.Scores[0] != 1.4 || s.Scores[2] != nil {
		t.Errorf("campaign scores: %+v", s.Scores)
	}

	chad := terms[7]
	if chad.Party != nil || chad.LR != nil || chad.TotalAverage != nil || chad.Region != "" {
		t.Errorf("missing values not nil: %+v", chad)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrEmptyDataset},
		{"header only", "country,leader,yearbegin,yearend\n", ErrEmptyDataset},
		{"missing column", "country,leader,yearbegin\nX,Y,2000\n", ErrMissingColumn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tc.in))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseCSV_BadRows(t *testing.T) {
	for _, in := range []string{
		"country,leader,yearbegin,yearend\n,Y,2000,2001\n",
		"country,leader,yearbegin,yearend\nX,Y,soon,2001\n",
		"country,leader,yearbegin,yearend\nX,Y,2000,later\n",
	} {
		if _, err := ParseCSV(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestParseCSV_BOMAndCase(t *testing.T) {
	in := "\ufeffCountry,Leader,YearBegin,YearEnd,lr\nPeru,Castillo,2021,2022,-1.0\n"
	terms, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if terms[0].Country != "Peru" || terms[0].LR == nil || *terms[0].LR != -1 {
		t.Errorf("%+v", terms[0])
	}
}

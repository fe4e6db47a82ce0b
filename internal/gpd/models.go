package gpd

// SpeechType selects which per-term average feeds the map.
type SpeechType string

const (
	SpeechTotal         SpeechType = "total"
	SpeechCampaign      SpeechType = "campaign"
	SpeechFamous        SpeechType = "famous"
	SpeechInternational SpeechType = "international"
	SpeechRibbon        SpeechType = "ribbon"
)

// SpeechKinds are the four sampled speech categories, in dataset order.
var SpeechKinds = []SpeechType{SpeechCampaign, SpeechFamous, SpeechInternational, SpeechRibbon}

// ParseSpeechType falls back to total for anything unrecognised.
func ParseSpeechType(s string) SpeechType {
	switch t := SpeechType(s); t {
	case SpeechCampaign, SpeechFamous, SpeechInternational, SpeechRibbon:
		return t
	}
	return SpeechTotal
}

// CurrentYear stands in for a yearend of "current".
const CurrentYear = 2026

// SpeechScores is one speech category of one term.
type SpeechScores struct {
	File    *string     `json:"file"`
	Scores  [4]*float64 `json:"scores"`
	Average *float64    `json:"average"`
}

// LeaderTerm is one row of the GPD wide file.
type LeaderTerm struct {
	Country        string                      `json:"country"`
	Leader         string                      `json:"leader"`
	Party          *string                     `json:"party"`
	LR             *int                        `json:"lr"`
	President      bool                        `json:"president"`
	Term           int                         `json:"term"`
	StartOfTerm    string                      `json:"startofterm"`
	YearBegin      int                         `json:"yearbegin"`
	EndOfTerm      string                      `json:"endofterm"`
	YearEnd        string                      `json:"yearend"`
	YearEndNumeric int                         `json:"yearend_numeric"`
	WBRegion       string                      `json:"wb_region"`
	Region         string                      `json:"region"`
	TotalAverage   *float64                    `json:"totalaverage"`
	Speeches       map[SpeechType]SpeechScores `json:"speeches"`
}

// ScoreFor returns the average feeding the given speech type.
func (t LeaderTerm) ScoreFor(st SpeechType) *float64 {
	if st == SpeechTotal || st == "" {
		return t.TotalAverage
	}
	return t.Speeches[st].Average
}

// Years is the number of calendar years the term touches inside [from,to].
// A zero bound is open.
func (t LeaderTerm) Years(from, to int) int {
	lo, hi := t.YearBegin, t.YearEndNumeric
	if from > 0 && from > lo {
		lo = from
	}
	if to > 0 && to < hi {
		hi = to
	}
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

type MapDataItem struct {
	Country     string   `json:"country"`
	AvgPopulism *float64 `json:"avg_populism"`
	Region      string   `json:"region"`
	WBRegion    string   `json:"wb_region"`
	Ideology    *int     `json:"ideology"`
	NumTerms    int      `json:"num_terms"`
}

type Leader struct {
	Leader  string  `json:"leader"`
	Country string  `json:"country"`
	Party   *string `json:"party"`
}

type TimelineItem struct {
	Leader        string   `json:"leader"`
	Party         *string  `json:"party"`
	YearStart     int      `json:"year_start"`
	YearEnd       int      `json:"year_end"`
	Term          int      `json:"term"`
	Ideology      *int     `json:"ideology"`
	TotalPopulism float64  `json:"total_populism"`
	Campaign      *float64 `json:"campaign"`
	Famous        *float64 `json:"famous"`
	International *float64 `json:"international"`
	Ribbon        *float64 `json:"ribbon"`
}

type Timeline struct {
	Country  string         `json:"country"`
	Timeline []TimelineItem `json:"timeline"`
	Count    int            `json:"count"`
}

type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type PopulismStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type Summary struct {
	TotalRecords   int                `json:"total_records"`
	TotalCountries int                `json:"total_countries"`
	TotalLeaders   int                `json:"total_leaders"`
	YearRange      YearRange          `json:"year_range"`
	PopulismStats  PopulismStats      `json:"populism_stats"`
	Regions        map[string]int     `json:"regions"`
	SpeechTypes    map[SpeechType]int `json:"speech_types"`
}

type SpeechItem struct {
	Filename      string     `json:"filename"`
	Country       string     `json:"country"`
	Leader        string     `json:"leader"`
	Party         *string    `json:"party"`
	Ideology      *int       `json:"ideology"`
	IdeologyLabel string     `json:"ideology_label"`
	SpeechType    SpeechType `json:"speech_type"`
	PopulismScore *float64   `json:"populism_score"`
	YearStart     int        `json:"year_start"`
	YearEnd       int        `json:"year_end"`
	Term          int        `json:"term"`
}

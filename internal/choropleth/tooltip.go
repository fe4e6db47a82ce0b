package choropleth

import (
	"html"
	"strconv"
)

// Tooltip is the hover text for a feature.
type Tooltip struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func tooltipFor(displayName string, rec MetricRecord, found bool) Tooltip {
	t := Tooltip{Title: displayName}
	if !found || !rec.Score.ok() {
		t.Detail = "No data available"
		return t
	}
	t.Detail = "Populism: " + strconv.FormatFloat(rec.Score.Value, 'f', 2, 64)
	if l := Label(rec.Ideology); l != "" {
		t.Detail += " · " + l
	}
	return t
}

func (t Tooltip) Text() string { return t.Title + "\n" + t.Detail }

// HTML renders the tooltip the way Leaflet's bindTooltip expects it.
func (t Tooltip) HTML() string {
	return "<strong>" + html.EscapeString(t.Title) + "</strong><br/>" + html.EscapeString(t.Detail)
}

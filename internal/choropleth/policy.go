package choropleth

// FilterState is supplied by the view on every render.
type FilterState struct {
	Ideology *Ideology
	Mode     ColorMode
}

// Selection is the view-owned selected country key; "" means none.
type Selection struct {
	Key string
}

func (s Selection) Has() bool { return s.Key != "" }

// Visual is the fill decision for one feature before strokes are applied.
type Visual struct {
	Fill     Color `json:"fill"`
	Dimmed   bool  `json:"dimmed"`
	Selected bool  `json:"selected"`
}

func classify(rec MetricRecord, found bool, enc encoding, f FilterState, sel Selection) Visual {
	if !found {
		return Visual{Fill: NoData}
	}
	v := Visual{Selected: sel.Has() && rec.Country == sel.Key}
	if enc.filters() && f.Ideology != nil && !sameIdeology(rec.Ideology, *f.Ideology) {
		v.Fill = NoData
		v.Dimmed = true
		return v
	}
	v.Fill = enc.fill(rec)
	return v
}

func sameIdeology(have *Ideology, want Ideology) bool {
	return have != nil && *have == want
}

// Highlight holds the two independent stroke sources. Hover is transient,
// selection persists; clearing one never touches the other.
type Highlight struct {
	Selected bool
	Hovered  bool
}

const (
	DefaultStroke  Color = "#999999"
	SelectedStroke Color = "#1e40af"

	restingWeight  = 1
	hoverWeight    = 2
	selectedWeight = 3

	fillOpacity   = 0.7
	dimmedOpacity = 0.3
)

// Stroke combines the highlight slots. Selection outranks hover.
func (h Highlight) Stroke() (weight float64, color Color) {
	switch {
	case h.Selected:
		return selectedWeight, SelectedStroke
	case h.Hovered:
		return hoverWeight, DefaultStroke
	}
	return restingWeight, DefaultStroke
}

// ResolvedStyle is the per-feature output handed to the rendering surface.
type ResolvedStyle struct {
	FillColor   Color   `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity"`
	Weight      float64 `json:"weight"`
	Color       Color   `json:"color"`
	Opacity     float64 `json:"opacity"`
}

func styleOf(v Visual, hovered bool) ResolvedStyle {
	weight, stroke := Highlight{Selected: v.Selected, Hovered: hovered}.Stroke()
	op := fillOpacity
	if v.Dimmed {
		op = dimmedOpacity
	}
	return ResolvedStyle{
		FillColor:   v.Fill,
		FillOpacity: op,
		Weight:      weight,
		Color:       stroke,
		Opacity:     1,
	}
}

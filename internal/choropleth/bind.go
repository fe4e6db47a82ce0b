package choropleth

// GeoFeature is a boundary feature as far as the binding layer cares:
// only its raw name. Geometry stays with the rendering side.
type GeoFeature interface {
	FeatureName() string
}

// Name adapts a plain string to GeoFeature.
type Name string

func (n Name) FeatureName() string { return string(n) }

// Pass is one render pass over a consistent snapshot of metrics, filters
// and selection. Every feature bound through a Pass sees the same inputs.
type Pass struct {
	resolver  Resolver
	idx       *Index
	filter    FilterState
	selection Selection
	enc       encoding
}

// NewPass panics if f.Mode is not IntensityOnly or ByIdeology.
func NewPass(r Resolver, idx *Index, f FilterState, sel Selection) *Pass {
	return &Pass{
		resolver:  r,
		idx:       idx,
		filter:    f,
		selection: sel,
		enc:       f.Mode.encoding(),
	}
}

func (p *Pass) Filter() FilterState  { return p.filter }
func (p *Pass) Selection() Selection { return p.selection }

// Binding is everything the rendering surface needs for one feature.
type Binding struct {
	RawName     string        `json:"name"`
	Key         string        `json:"country,omitempty"`
	DisplayName string        `json:"display_name"`
	Resolved    bool          `json:"resolved"`
	Visual      Visual        `json:"visual"`
	Style       ResolvedStyle `json:"style"`
	Tooltip     Tooltip       `json:"tooltip"`
}

func (p *Pass) Bind(f GeoFeature) Binding {
	raw := f.FeatureName()
	rec, found := p.resolver.Resolve(raw, p.idx)
	b := Binding{RawName: raw, DisplayName: raw, Resolved: found}
	if found {
		b.Key = rec.Country
		b.DisplayName = rec.Country
	}
	b.Visual = classify(rec, found, p.enc, p.filter, p.selection)
	b.Style = styleOf(b.Visual, false)
	b.Tooltip = tooltipFor(b.DisplayName, rec, found)
	return b
}

// BindAll binds features in input order.
func BindAll[F GeoFeature](p *Pass, features []F) []Binding {
	out := make([]Binding, len(features))
	for i, f := range features {
		out[i] = p.Bind(f)
	}
	return out
}

// Click reports the selection candidate. Unresolved features are not
// selectable.
func (b Binding) Click() (string, bool) {
	if !b.Resolved {
		return "", false
	}
	return b.Key, true
}

// Hover returns the style to apply on hover enter (entered=true) or exit.
// Exit always restores the resting style, selection stroke included.
func (b Binding) Hover(entered bool) ResolvedStyle {
	return styleOf(b.Visual, entered)
}

func (b Binding) HoverStyle() ResolvedStyle { return b.Hover(true) }

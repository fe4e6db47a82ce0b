package choropleth

import (
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// MetricRecord is one country's aggregate from a metrics snapshot.
type MetricRecord struct {
	Country  string
	Score    Score
	Ideology *Ideology
	Region   string
	WBRegion string
	NumTerms int
}

// AliasTable maps boundary-dataset spellings to canonical metric keys.
// It is a fallback: the resolver only consults it after direct matches fail.
type AliasTable struct {
	m map[string]string
}

// DefaultAliases is the built-in table for the public countries GeoJSON.
func DefaultAliases() AliasTable {
	return NewAliasTable(map[string]string{
		"United States of America": "United States",
		"United Kingdom":           "UK",
		"Czech Republic":           "Czechia",
		"Russian Federation":       "Russia",
		"Korea, Republic of":       "South Korea",
		"Republic of Korea":        "South Korea",
	})
}

// NewAliasTable copies m so later changes to it do not leak into the table.
func NewAliasTable(m map[string]string) AliasTable {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return AliasTable{m: cp}
}

// With returns a new table holding t's entries plus extra.
// Existing entries are never replaced.
func (t AliasTable) With(extra map[string]string) AliasTable {
	cp := make(map[string]string, len(t.m)+len(extra))
	for k, v := range extra {
		cp[k] = v
	}
	for k, v := range t.m {
		cp[k] = v
	}
	return AliasTable{m: cp}
}

func (t AliasTable) Lookup(raw string) (string, bool) {
	v, ok := t.m[raw]
	return v, ok
}

func (t AliasTable) Len() int { return len(t.m) }

// Unreachable lists alias targets that idx cannot reach directly, sorted.
func (t AliasTable) Unreachable(idx *Index) []string {
	seen := map[string]bool{}
	var out []string
	for _, target := range t.m {
		if seen[target] {
			continue
		}
		seen[target] = true
		if _, ok := idx.lookup(target); !ok {
			out = append(out, target)
		}
	}
	sort.Strings(out)
	return out
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads an `aliases:` mapping and layers it over DefaultAliases.
func LoadAliases(r io.Reader) (AliasTable, error) {
	var f aliasFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return AliasTable{}, fmt.Errorf("decode aliases: %w", err)
	}
	for raw, target := range f.Aliases {
		if raw == "" || target == "" {
			return AliasTable{}, fmt.Errorf("alias %q -> %q: empty side", raw, target)
		}
	}
	return DefaultAliases().With(f.Aliases), nil
}

// LoadAliasFile is LoadAliases over a file. An empty path yields the
// defaults.
func LoadAliasFile(path string) (AliasTable, error) {
	if path == "" {
		return DefaultAliases(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return AliasTable{}, err
	}
	defer f.Close()
	t, err := LoadAliases(f)
	if err != nil {
		return AliasTable{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Index is the lookup built from one metrics snapshot.
type Index struct {
	exact   map[string]MetricRecord
	folded  map[string]MetricRecord
	records []MetricRecord
}

// NewIndex indexes records by exact and lower-cased country key.
// On duplicate keys the later record wins.
func NewIndex(records []MetricRecord) *Index {
	idx := &Index{
		exact:   make(map[string]MetricRecord, len(records)),
		folded:  make(map[string]MetricRecord, len(records)),
		records: append([]MetricRecord(nil), records...),
	}
	for _, r := range records {
		idx.exact[r.Country] = r
		idx.folded[fold(r.Country)] = r
	}
	return idx
}

func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.exact)
}

// Records returns the snapshot in its original order.
func (idx *Index) Records() []MetricRecord {
	if idx == nil {
		return nil
	}
	return append([]MetricRecord(nil), idx.records...)
}

func (idx *Index) lookup(name string) (MetricRecord, bool) {
	if idx == nil {
		return MetricRecord{}, false
	}
	if r, ok := idx.exact[name]; ok {
		return r, true
	}
	r, ok := idx.folded[fold(name)]
	return r, ok
}

func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Resolver maps boundary names onto metric records.
type Resolver struct {
	aliases AliasTable
}

func NewResolver(aliases AliasTable) Resolver {
	return Resolver{aliases: aliases}
}

func (r Resolver) Aliases() AliasTable { return r.aliases }

// Resolve tries, in order: exact key, lower-cased key, then the alias
// target (exact, then lower-cased). A miss is reported with ok=false.
func (r Resolver) Resolve(rawName string, idx *Index) (MetricRecord, bool) {
	if rec, ok := idx.lookup(rawName); ok {
		return rec, true
	}
	if target, ok := r.aliases.Lookup(rawName); ok {
		return idx.lookup(target)
	}
	return MetricRecord{}, false
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mind-engage/populism-atlas/internal/boundary"
	"github.com/mind-engage/populism-atlas/internal/choropleth"
	"github.com/mind-engage/populism-atlas/internal/config"
	"github.com/mind-engage/populism-atlas/internal/gpd"
	"github.com/mind-engage/populism-atlas/internal/storage"
)

// snapshotFlags are shared by render and coverage.
type snapshotFlags struct {
	csv          string
	boundaries   string
	aliases      string
	cacheDir     string
	yearStart    int
	yearEnd      int
	speechType   string
	timeWeighted bool
}

func (s *snapshotFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.csv, "csv", "", "GPD wide CSV (default: DATASET_PATH)")
	f.StringVar(&s.boundaries, "boundaries", "", "boundary GeoJSON file or URL (default: BOUNDARY_SOURCE)")
	f.StringVar(&s.aliases, "aliases", "", "alias YAML layered over the built-in table (default: ALIAS_PATH)")
	f.StringVar(&s.cacheDir, "cache-dir", "", "download cache for URL boundaries (default: BOUNDARY_CACHE_DIR)")
	f.IntVar(&s.yearStart, "year-start", 0, "first year of the window (0 = open)")
	f.IntVar(&s.yearEnd, "year-end", 0, "last year of the window (0 = open)")
	f.StringVar(&s.speechType, "speech-type", "total", "total|campaign|famous|international|ribbon")
	f.BoolVar(&s.timeWeighted, "time-weighted", false, "weight terms by years inside the window")
}

func (s *snapshotFlags) withDefaults(cfg config.Config) {
	if s.csv == "" {
		s.csv = cfg.DatasetPath
	}
	if s.boundaries == "" {
		s.boundaries = cfg.BoundarySource
	}
	if s.aliases == "" {
		s.aliases = cfg.AliasPath
	}
	if s.cacheDir == "" {
		s.cacheDir = cfg.BoundaryCacheDir
	}
}

func (s *snapshotFlags) query() gpd.MapQuery {
	q := gpd.MapQuery{SpeechType: gpd.SpeechType(s.speechType), TimeWeighted: s.timeWeighted}
	if s.yearStart > 0 {
		q.YearStart = &s.yearStart
	}
	if s.yearEnd > 0 {
		q.YearEnd = &s.yearEnd
	}
	return q
}

// atlasInputs is everything a render pass needs, loaded from files.
type atlasInputs struct {
	resolver choropleth.Resolver
	index    *choropleth.Index
	set      *boundary.Set
}

func (s *snapshotFlags) load(ctx context.Context) (*atlasInputs, error) {
	s.withDefaults(config.FromEnv())

	aliases, err := choropleth.LoadAliasFile(s.aliases)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s.csv)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	terms, err := gpd.ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.csv, err)
	}

	var cache storage.BlobStore
	if s.cacheDir != "" && strings.HasPrefix(s.boundaries, "http") {
		fs, err := storage.NewFSStore(s.cacheDir)
		if err != nil {
			return nil, err
		}
		cache = fs
	}
	set, err := boundary.NewLoader(cache).Load(ctx, s.boundaries)
	if err != nil {
		return nil, err
	}

	return &atlasInputs{
		resolver: choropleth.NewResolver(aliases),
		index:    gpd.Snapshot(gpd.MapDataFrom(terms, s.query())),
		set:      set,
	}, nil
}

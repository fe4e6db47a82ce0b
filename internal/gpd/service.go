package gpd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/mind-engage/populism-atlas/internal/logging"
	syncx "github.com/mind-engage/populism-atlas/internal/sync"
)

var (
	ErrCountryNotFound = errors.New("country not found")
	ErrInvalidDataset  = errors.New("invalid dataset")
)

// EventAppender records audit events; *syncx.EventRepo satisfies it.
type EventAppender interface {
	Append(ctx context.Context, e syncx.Event) error
}

type Service struct {
	store  Store
	events EventAppender
	log    *slog.Logger
}

// NewService wires a store and an optional event log.
func NewService(store Store, events EventAppender) *Service {
	return &Service{store: store, events: events, log: logging.New("gpd")}
}

type ImportResult struct {
	BatchID   string `json:"batch_id"`
	Source    string `json:"source"`
	Rows      int    `json:"rows"`
	Countries int    `json:"countries"`
}

// Import parses a GPD CSV and replaces the stored dataset wholesale.
func (s *Service) Import(ctx context.Context, r io.Reader, source string) (ImportResult, error) {
	terms, err := ParseCSV(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %s: %w", ErrInvalidDataset, source, err)
	}
	if err := s.store.ReplaceTerms(ctx, terms); err != nil {
		return ImportResult{}, fmt.Errorf("store %s: %w", source, err)
	}
	countries := map[string]struct{}{}
	for _, t := range terms {
		countries[t.Country] = struct{}{}
	}
	res := ImportResult{
		BatchID:   uuid.NewString(),
		Source:    source,
		Rows:      len(terms),
		Countries: len(countries),
	}
	if s.events != nil {
		data, _ := json.Marshal(res)
		if err := s.events.Append(ctx, syncx.Event{Type: syncx.TypeDatasetImported, Key: res.BatchID, Data: data}); err != nil {
			// the dataset is already swapped; losing the audit row is not fatal
			s.log.Warn("event append failed", "batch", res.BatchID, "error", err)
		}
	}
	s.log.Info("dataset imported", "source", source, "rows", res.Rows, "countries", res.Countries, "batch", res.BatchID)
	return res, nil
}

// ImportFileIfEmpty seeds an empty store from path. It reports whether an
// import happened.
func (s *Service) ImportFileIfEmpty(ctx context.Context, path string) (bool, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 || path == "" {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	if _, err := s.Import(ctx, f, path); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Data(ctx context.Context, f TermFilter) ([]LeaderTerm, error) {
	terms, err := s.store.Terms(ctx, f)
	if terms == nil {
		terms = []LeaderTerm{}
	}
	return terms, err
}

// MapData is the per-country metrics snapshot for one combination of the
// map controls.
func (s *Service) MapData(ctx context.Context, q MapQuery) ([]MapDataItem, error) {
	q.SpeechType = ParseSpeechType(string(q.SpeechType))
	terms, err := s.store.Terms(ctx, q.filter())
	if err != nil {
		return nil, err
	}
	return AggregateMap(terms, q), nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	terms, err := s.store.Terms(ctx, TermFilter{})
	if err != nil {
		return Summary{}, err
	}
	if len(terms) == 0 {
		return Summary{}, ErrEmptyDataset
	}
	return Summarize(terms), nil
}

func (s *Service) Timeline(ctx context.Context, country string) (Timeline, error) {
	terms, err := s.store.Terms(ctx, TermFilter{Country: country})
	if err != nil {
		return Timeline{}, err
	}
	if len(terms) == 0 {
		return Timeline{}, fmt.Errorf("%w: %q", ErrCountryNotFound, country)
	}
	return BuildTimeline(country, terms), nil
}

func (s *Service) Speeches(ctx context.Context, q SpeechQuery) ([]SpeechItem, error) {
	terms, err := s.store.Terms(ctx, TermFilter{Country: q.Country, Ideology: q.Ideology})
	if err != nil {
		return nil, err
	}
	return ListSpeeches(terms, q), nil
}

// Count is the number of stored terms.
func (s *Service) Count(ctx context.Context) (int, error) { return s.store.Count(ctx) }

func (s *Service) Countries(ctx context.Context) ([]string, error) { return s.store.Countries(ctx) }

func (s *Service) Regions(ctx context.Context) ([]string, []string, error) {
	return s.store.Regions(ctx)
}

func (s *Service) Leaders(ctx context.Context, country string) ([]Leader, error) {
	return s.store.Leaders(ctx, country)
}

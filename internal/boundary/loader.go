package boundary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mind-engage/populism-atlas/internal/logging"
	"github.com/mind-engage/populism-atlas/internal/storage"
)

var maxDownload = 64 << 20

// ErrTooLarge is returned for downloads over the size limit.
var ErrTooLarge = errors.New("boundary download too large")

// Loader reads a boundary dataset from a local path or an http(s) URL.
// Downloads are cached in Cache when it is set.
type Loader struct {
	Cache  storage.BlobStore
	Client *http.Client
	log    *slog.Logger
}

func NewLoader(cache storage.BlobStore) *Loader {
	return &Loader{
		Cache:  cache,
		Client: &http.Client{Timeout: 60 * time.Second},
		log:    logging.New("boundary"),
	}
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func cacheKey(src string) string {
	sum := sha1.Sum([]byte(src))
	return "boundaries/" + hex.EncodeToString(sum[:]) + ".geojson"
}

func (l *Loader) Load(ctx context.Context, src string) (*Set, error) {
	if src == "" {
		return nil, errors.New("no boundary source configured")
	}
	var (
		features []Feature
		err      error
	)
	if isURL(src) {
		features, err = l.loadURL(ctx, src)
	} else {
		var data []byte
		if data, err = os.ReadFile(src); err == nil {
			features, err = Parse(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	l.logger().Info("boundaries loaded", "source", src, "features", len(features))
	return &Set{Source: src, Features: features}, nil
}

// loadURL serves from the cache when the cached copy parses. Only a
// download that parses is written back.
func (l *Loader) loadURL(ctx context.Context, src string) ([]Feature, error) {
	key := cacheKey(src)
	if l.Cache != nil {
		if features, err := l.cached(ctx, key); err == nil {
			return features, nil
		} else if !errors.Is(err, storage.ErrNotFound) {
			l.logger().Warn("boundary cache unusable, refetching", "key", key, "error", err)
		}
	}

	data, err := l.download(ctx, src)
	if err != nil {
		return nil, err
	}
	features, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if l.Cache != nil {
		if _, err := l.Cache.Put(ctx, key, bytes.NewReader(data)); err != nil {
			l.logger().Warn("boundary cache write failed", "key", key, "error", err)
		}
	}
	return features, nil
}

func (l *Loader) cached(ctx context.Context, key string) ([]Feature, error) {
	rc, err := l.Cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (l *Loader) download(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch boundaries: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxDownload)+1))
	if err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}
	if len(data) > maxDownload {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, maxDownload)
	}
	return data, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.log == nil {
		return logging.New("boundary")
	}
	return l.log
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/mind-engage/populism-atlas/internal/auth/middleware"
	"github.com/mind-engage/populism-atlas/internal/boundary"
	"github.com/mind-engage/populism-atlas/internal/choropleth"
	"github.com/mind-engage/populism-atlas/internal/config"
	"github.com/mind-engage/populism-atlas/internal/db"
	"github.com/mind-engage/populism-atlas/internal/gpd"
	syncx "github.com/mind-engage/populism-atlas/internal/sync"
)

const sampleCSV = "../../gpd/testdata/gpd_sample.csv"

type testEnv struct {
	srv  *httptest.Server
	deps Deps
}

func newTestEnv(t *testing.T, gate bool) *testEnv {
	t.Helper()
	ctx := context.Background()
	h, err := db.Open(ctx, db.DriverSQLite, "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	events := syncx.NewEventRepo(h)
	svc := gpd.NewService(gpd.NewSQLStore(h, "sqlite"), events)
	_, err = svc.ImportFileIfEmpty(ctx, sampleCSV)
	require.NoError(t, err)

	set, err := boundary.NewLoader(nil).Load(ctx, "../../boundary/testdata/countries.geojson")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("adminpw"), bcrypt.MinCost)
	require.NoError(t, err)

	d := Deps{
		Config: config.Config{
			Mode:                config.ModeOffline,
			EnableAgreementGate: gate,
			AdminUser:           "admin",
			AdminPassHash:       string(hash),
		},
		Service: svc,
		Events:  events,
		Auth:    authmw.NewAuthService("test-secret", time.Hour),
		Atlas: &Atlas{
			Resolver:   choropleth.NewResolver(choropleth.DefaultAliases()),
			Boundaries: set,
		},
	}
	srv := httptest.NewServer(NewRouter(d))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, deps: d}
}

func (e *testEnv) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestDataEndpoints(t *testing.T) {
	e := newTestEnv(t, false)

	resp := e.get(t, "/api/countries", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	countries := decode[struct {
		Countries []string `json:"countries"`
		Count     int      `json:"count"`
	}](t, resp)
	assert.Equal(t, 5, countries.Count)
	assert.Equal(t, "Bolivia", countries.Countries[0])

	resp = e.get(t, "/api/data?country=Brazil&year_start=2020", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decode[struct {
		Data  []gpd.LeaderTerm `json:"data"`
		Count int              `json:"count"`
	}](t, resp)
	require.Equal(t, 2, data.Count)
	assert.Equal(t, "current", data.Data[1].YearEnd)

	resp = e.get(t, "/api/timeline/United%20States", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tl := decode[gpd.Timeline](t, resp)
	assert.Equal(t, 2, tl.Count)
	assert.Equal(t, "Obama", tl.Timeline[0].Leader)

	assert.Equal(t, http.StatusNotFound, e.get(t, "/api/timeline/Atlantis", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, e.get(t, "/api/data?year_start=soon", "").StatusCode)

	resp = e.get(t, "/api/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 8, decode[gpd.Summary](t, resp).TotalRecords)

	resp = e.get(t, "/api/speeches?ideology=left", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, decode[struct {
		Count int `json:"count"`
	}](t, resp).Count)
}

func TestMapData(t *testing.T) {
	e := newTestEnv(t, false)

	resp := e.get(t, "/api/map-data?ideology=-1&speech_type=bogus", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		MapData []gpd.MapDataItem `json:"map_data"`
		Filters mapFilters        `json:"filters"`
	}](t, resp)
	require.Len(t, out.MapData, 2)
	assert.Equal(t, gpd.SpeechTotal, out.Filters.SpeechType)
	require.NotNil(t, out.Filters.Ideology)
	assert.Equal(t, -1, *out.Filters.Ideology)

	assert.Equal(t, http.StatusBadRequest, e.get(t, "/api/map-data?ideology=far-left", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, e.get(t, "/api/map-data?year_start=2020&year_end=2010", "").StatusCode)
}

type featureCollection struct {
	Type      string               `json:"type"`
	ColorMode choropleth.ColorMode `json:"color_mode"`
	Selected  *string              `json:"selected"`
	Features  []struct {
		Properties struct {
			Name       string                   `json:"name"`
			Country    *string                  `json:"country"`
			Resolved   bool                     `json:"resolved"`
			Selectable bool                     `json:"selectable"`
			Dimmed     bool                     `json:"dimmed"`
			Selected   bool                     `json:"selected"`
			Style      choropleth.ResolvedStyle `json:"style"`
			HoverStyle choropleth.ResolvedStyle `json:"hover_style"`
			Tooltip    string                   `json:"tooltip"`
		} `json:"properties"`
	} `json:"features"`
}

func TestChoropleth(t *testing.T) {
	e := newTestEnv(t, false)

	resp := e.get(t, "/api/choropleth?color_mode=ideology&ideology=left&selected=United%20States%20of%20America", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))
	fc := decode[featureCollection](t, resp)
	require.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 6)
	assert.Equal(t, choropleth.ByIdeology, fc.ColorMode)
	require.NotNil(t, fc.Selected)
	assert.Equal(t, "United States", *fc.Selected)

	us := fc.Features[0].Properties
	require.NotNil(t, us.Country)
	assert.Equal(t, "United States", *us.Country)
	assert.True(t, us.Selected, "raw boundary spelling selects the canonical key")
	assert.True(t, us.Dimmed)
	assert.Equal(t, choropleth.NoData, us.Style.FillColor)
	assert.EqualValues(t, 3, us.Style.Weight)

	br := fc.Features[1].Properties
	assert.False(t, br.Dimmed)
	assert.NotEqual(t, choropleth.NoData, br.Style.FillColor)
	assert.EqualValues(t, 2, br.HoverStyle.Weight)

	gl := fc.Features[4].Properties
	assert.False(t, gl.Resolved)
	assert.False(t, gl.Selectable)
	assert.Nil(t, gl.Country)
	assert.Equal(t, "Greenland\nNo data available", gl.Tooltip)

	// intensity mode ignores the ideology filter
	resp = e.get(t, "/api/choropleth?color_mode=intensity&ideology=left", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fc = decode[featureCollection](t, resp)
	assert.False(t, fc.Features[0].Properties.Dimmed)
	assert.Equal(t, choropleth.IntensityColor(choropleth.NewScore(0.45)), fc.Features[0].Properties.Style.FillColor)

	assert.Equal(t, http.StatusBadRequest, e.get(t, "/api/choropleth?color_mode=rainbow", "").StatusCode)
}

func TestChoropleth_NoBoundaries(t *testing.T) {
	e := newTestEnv(t, false)
	e.deps.Atlas.Boundaries = nil
	assert.Equal(t, http.StatusServiceUnavailable, e.get(t, "/api/choropleth", "").StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, e.get(t, "/api/coverage", "").StatusCode)
}

func TestResolveAndCoverage(t *testing.T) {
	e := newTestEnv(t, false)

	resp := e.get(t, "/api/choropleth/resolve?name=United%20Kingdom", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[struct {
		Country  *string `json:"country"`
		Resolved bool    `json:"resolved"`
	}](t, resp)
	require.True(t, res.Resolved)
	assert.Equal(t, "UK", *res.Country)

	resp = e.get(t, "/api/choropleth/resolve?name=Greenland", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[struct {
		Resolved bool `json:"resolved"`
	}](t, resp).Resolved)

	assert.Equal(t, http.StatusBadRequest, e.get(t, "/api/choropleth/resolve", "").StatusCode)

	resp = e.get(t, "/api/coverage", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cov := decode[boundary.Coverage](t, resp)
	assert.Equal(t, []string{"Greenland"}, cov.UnresolvedFeatures)
	assert.Equal(t, []string{"Chad"}, cov.UnmappedCountries)
	assert.Equal(t, 4, cov.Resolved)
}

func TestAgreementGate(t *testing.T) {
	e := newTestEnv(t, true)

	assert.Equal(t, http.StatusUnauthorized, e.get(t, "/api/countries", "").StatusCode)

	resp, err := http.Post(e.srv.URL+"/auth/agree", "application/json", strings.NewReader(`{"agreed":true}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := decode[authmw.TokenResponse](t, resp)

	assert.Equal(t, http.StatusOK, e.get(t, "/api/countries", tok.AccessToken).StatusCode)

	resp = e.get(t, "/auth/me", tok.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[struct {
		Role string `json:"role"`
	}](t, resp)
	assert.Equal(t, authmw.RoleViewer, me.Role)
}

func uploadCSV(t *testing.T, url, token, path string) *http.Response {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "gpd.csv")
	require.NoError(t, err)
	_, _ = fw.Write(data)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAdminImport(t *testing.T) {
	e := newTestEnv(t, false)
	url := e.srv.URL + "/api/admin/import"

	assert.Equal(t, http.StatusUnauthorized, uploadCSV(t, url, "", sampleCSV).StatusCode)

	viewer, _ := e.deps.Auth.IssueJWT("v", authmw.RoleViewer)
	assert.Equal(t, http.StatusForbidden, uploadCSV(t, url, viewer, sampleCSV).StatusCode)

	resp, err := http.Post(e.srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"adminpw"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	admin := decode[authmw.TokenResponse](t, resp).AccessToken

	resp = uploadCSV(t, url, admin, sampleCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[gpd.ImportResult](t, resp)
	assert.Equal(t, 8, res.Rows)
	assert.Equal(t, "gpd.csv", res.Source)

	bad := t.TempDir() + "/bad.csv"
	require.NoError(t, os.WriteFile(bad, []byte("country,leader\nX,Y\n"), 0o644))
	assert.Equal(t, http.StatusBadRequest, uploadCSV(t, url, admin, bad).StatusCode)

	resp = e.get(t, "/api/admin/imports", admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode[struct {
		Count int `json:"count"`
	}](t, resp)
	assert.Equal(t, 2, hist.Count, "seed import plus the upload")
}

func TestHealthAndRoot(t *testing.T) {
	e := newTestEnv(t, false)
	assert.Equal(t, http.StatusOK, e.get(t, "/healthz", "").StatusCode)
	assert.Equal(t, http.StatusOK, e.get(t, "/readyz", "").StatusCode)
	assert.Equal(t, http.StatusOK, e.get(t, "/", "").StatusCode)
}

package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/availwin/internal/api/middleware"
	"github.com/ManuGH/availwin/internal/catalog"
	"github.com/ManuGH/availwin/internal/config"
	"github.com/ManuGH/availwin/internal/rights"
	"github.com/ManuGH/availwin/internal/title"
	"github.com/ManuGH/availwin/internal/windows"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	day = int64(24 * 60 * 60 * 1000)
	t0  = int64(1735689600000)
)

func fixture(t *testing.T) *catalog.Snapshot {
	t.Helper()
	snap := catalog.New(t0 + day)
	snap.AddPackage(100, rights.Package{ID: 500, IsDefault: true, Formats: []string{"HD"}})
	snap.AddShow(catalog.Show{ID: 1, Seasons: []catalog.Season{{ID: 2, Sequence: 1, Episodes: []int64{100}}}})

	withPackage := rights.WindowContract{
		ContractID: 10,
		Packages:   []rights.ContractPackage{{PackageID: 500}},
		Assets:     []rights.Asset{{Bcp47Code: "fr", Type: rights.AssetSubtitles}},
	}
	bare := rights.WindowContract{ContractID: 20}
	live := &rights.Flags{GoLive: true}

	for _, st := range []*rights.Status{
		{VideoID: 100, Country: "US", Flags: live, Rights: rights.Rights{Windows: []rights.Window{
			{StartDate: t0, EndDate: t0 + 30*day, Contracts: []rights.WindowContract{withPackage}},
		}}},
		{VideoID: 2, Country: "US", Flags: live, Rights: rights.Rights{Windows: []rights.Window{
			{StartDate: t0, EndDate: t0 + 60*day, Contracts: []rights.WindowContract{bare}},
		}}},
		{VideoID: 200, Country: "US", Rights: rights.Rights{Windows: []rights.Window{
			{StartDate: t0, EndDate: t0 + 60*day, Contracts: []rights.WindowContract{bare}},
		}}},
	} {
		require.NoError(t, snap.AddStatus(st))
	}
	return snap
}

func newServer(t *testing.T, holder *config.Holder) http.Handler {
	t.Helper()
	snap := fixture(t)
	var toggles func() windows.Toggles
	if holder != nil {
		toggles = holder.Toggles
	}
	p := title.NewProcessor(windows.NewEngine(snap, toggles), snap)
	return New(p, holder, "test").Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newServer(t, nil), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
}

func TestVideoWindows(t *testing.T) {
	h := newServer(t, nil)

	rec := get(t, h, "/api/v1/videos/100/countries/us/windows")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		VideoID int64  `json:"videoId"`
		Country string `json:"country"`
		Live    bool   `json:"live"`
		Windows []struct {
			StartDate            int64                      `json:"startDate"`
			BundledAssetsGroupID int32                      `json:"bundledAssetsGroupId"`
			InfosByPackage       map[string]json.RawMessage `json:"windowInfosByPackageId"`
		} `json:"windows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(100), body.VideoID)
	assert.Equal(t, "US", body.Country)
	assert.True(t, body.Live)
	require.Len(t, body.Windows, 1)
	assert.Equal(t, t0, body.Windows[0].StartDate)
	assert.Equal(t, int32(10), body.Windows[0].BundledAssetsGroupID)
	assert.Contains(t, body.Windows[0].InfosByPackage, "500")
}

func TestVideoWindows_NoPackageKey(t *testing.T) {
	rec := get(t, newServer(t, nil), "/api/v1/videos/200/countries/US/windows")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"none":`)
}

func TestVideoWindows_EmptyListForLocaleWithoutAssets(t *testing.T) {
	rec := get(t, newServer(t, nil), "/api/v1/videos/100/countries/US/windows?locale=de")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"windows":[]`)
	assert.Contains(t, rec.Body.String(), `"locale":"de"`)
}

func TestVideoWindows_Errors(t *testing.T) {
	h := newServer(t, nil)

	tests := []struct {
		name string
		path string
		code int
	}{
		{name: "unknown video", path: "/api/v1/videos/404/countries/US/windows", code: http.StatusNotFound},
		{name: "unknown country", path: "/api/v1/videos/100/countries/DE/windows", code: http.StatusNotFound},
		{name: "bad video id", path: "/api/v1/videos/abc/countries/US/windows", code: http.StatusBadRequest},
		{name: "negative video id", path: "/api/v1/videos/-1/countries/US/windows", code: http.StatusBadRequest},
		{name: "bad country", path: "/api/v1/videos/100/countries/USA/windows", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path)
			require.Equal(t, tt.code, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, rec.Header().Get(middleware.HeaderRequestID), body.RequestID)
		})
	}
}

func TestTitleRollup(t *testing.T) {
	h := newServer(t, nil)

	rec := get(t, h, "/api/v1/titles/1/countries/US/rollup")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body title.ShowResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "US", body.Country)
	require.Len(t, body.Seasons, 1)
	require.Len(t, body.Seasons[0].Windows, 1)
	assert.Equal(t, int32(10), body.Seasons[0].Windows[0].BundledAssetsGroupID)
	assert.Contains(t, rec.Body.String(), `"windows":[]`, "show without status renders an empty list")

	rec = get(t, h, "/api/v1/titles/9/countries/US/rollup")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfigReload(t *testing.T) {
	t.Run("unavailable without holder", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/config/reload", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("reloads and rejects invalid files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("windows:\n  unfilteredQuota: 1\n"), 0o600))
		loader := config.NewLoader(path, "test")
		cfg, err := loader.Load()
		require.NoError(t, err)
		holder := config.NewHolder(cfg, loader)
		h := newServer(t, holder)

		require.NoError(t, os.WriteFile(path, []byte("windows:\n  unfilteredQuota: 2\n"), 0o600))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/config/reload", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, holder.Toggles().UnfilteredQuota)

		require.NoError(t, os.WriteFile(path, []byte("nonsense: 1\n"), 0o600))
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/config/reload", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, 2, holder.Toggles().UnfilteredQuota)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	h := newServer(t, nil)
	_ = get(t, h, "/healthz")

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "availwin_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/healthz"`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.Metrics.Enabled = false
	h := newServer(t, config.NewHolder(cfg, config.NewLoader("", "")))

	rec := get(t, h, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := config.Defaults()
	cfg.API.RateLimitRPS = 1
	h := newServer(t, config.NewHolder(cfg, config.NewLoader("", "")))

	first := get(t, h, "/healthz")
	second := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	snap := fixture(t)
	srv := New(title.NewProcessor(windows.NewEngine(snap, nil), snap), nil, "test")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url) //nolint:noctx
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.True(t, strings.Contains(string(body), `"ok"`))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

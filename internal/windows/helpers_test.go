package windows

import (
	"context"
	"testing"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/catalog"
	"github.com/ManuGH/availwin/internal/rights"
	"github.com/ManuGH/availwin/internal/rollup"
	"github.com/stretchr/testify/require"
)

const (
	day = int64(24 * 60 * 60 * 1000)
	t0  = int64(1735689600000) // 2025-01-01T00:00:00Z
	now = t0 + day
)

const (
	videoID = int64(100)
	country = "US"
)

func newSnapshot() *catalog.Snapshot {
	return catalog.New(now)
}

func window(start, end int64, contracts ...rights.WindowContract) rights.Window {
	return rights.Window{StartDate: start, EndDate: end, Contracts: contracts}
}

func withPackages(contractID int64, packageIDs ...int64) rights.WindowContract {
	wc := rights.WindowContract{ContractID: contractID}
	for _, id := range packageIDs {
		wc.Packages = append(wc.Packages, rights.ContractPackage{PackageID: id})
	}
	return wc
}

func subtitles(code string) rights.Asset {
	return rights.Asset{Bcp47Code: code, Type: rights.AssetSubtitles}
}

func audio(code string) rights.Asset {
	return rights.Asset{Bcp47Code: code, Type: rights.AssetAudio}
}

func statusOf(flags *rights.Flags, ws ...rights.Window) *rights.Status {
	return &rights.Status{VideoID: videoID, Country: country, Flags: flags, Rights: rights.Rights{Windows: ws}}
}

func togglesOf(t Toggles) func() Toggles {
	return func() Toggles { return t }
}

func compute(t *testing.T, e *Engine, mode Mode, live bool, st *rights.Status, acc Accumulator) []*availability.Window {
	t.Helper()
	out, err := e.Compute(context.Background(), Request{
		VideoID: st.VideoID,
		Country: st.Country,
		Mode:    mode,
		Status:  st,
		IsLive:  live,
	}, acc)
	require.NoError(t, err)
	return out
}

func episodeAccumulator() *rollup.Values {
	acc := rollup.New()
	acc.StartEpisode(1)
	return acc
}

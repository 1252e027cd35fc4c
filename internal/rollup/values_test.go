package rollup

import (
	"testing"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	v := New()
	assert.True(t, v.DoEpisode())

	v.StartEpisode(1)
	assert.Equal(t, LevelEpisode, v.Level())
	assert.Equal(t, 1, v.SeasonSequenceNumber())

	v.StartSeason(1)
	assert.True(t, v.DoSeason())
	assert.False(t, v.DoEpisode())

	v.StartShow()
	assert.True(t, v.DoShow())
	assert.Equal(t, "show", v.Level().String())
}

func TestNewEpisodeData_AnchorsOnlyWhenLive(t *testing.T) {
	v := New()
	v.StartEpisode(1)

	v.NewEpisodeData(false, 7)
	assert.False(t, v.WasSeasonEpisodeFound())
	assert.Zero(t, v.FirstEpisodeBundledAssetID())

	v.NewEpisodeData(true, 0)
	assert.True(t, v.WasSeasonEpisodeFound())
	assert.True(t, v.WasShowEpisodeFound())
	assert.Zero(t, v.FirstEpisodeBundledAssetID())

	v.NewEpisodeData(true, 9)
	v.NewEpisodeData(true, 11)
	assert.Equal(t, int32(9), v.FirstEpisodeBundledAssetID())
}

func TestSeasonBucketResetsOnNewSeason(t *testing.T) {
	v := New()
	v.StartEpisode(1)
	v.NewEpisodeData(true, 5)
	v.NewAssetBcp47Codes(availability.NewStringSet("fr"))

	v.StartSeason(1)
	assert.True(t, v.WasSeasonEpisodeFound(), "same season keeps its bucket")

	v.StartEpisode(2)
	assert.False(t, v.WasSeasonEpisodeFound())
	assert.Empty(t, v.AssetBcp47Codes())
	assert.True(t, v.WasShowEpisodeFound())

	v.StartShow()
	assert.Equal(t, []string{"fr"}, v.AssetBcp47Codes().Sorted())
	assert.Equal(t, int32(5), v.FirstEpisodeBundledAssetID())
}

func TestAggregation(t *testing.T) {
	v := New()
	v.StartEpisode(1)

	v.NewAssetBcp47Codes(availability.NewStringSet("fr"))
	v.NewAssetBcp47Codes(availability.NewStringSet("de", "fr"))
	v.NewAssetBcp47Codes(nil)
	v.NewPrePromoDays(3)
	v.NewPrePromoDays(1)
	v.NewCupTokens(availability.CupTokens{"b", "a"})
	v.NewCupTokens(availability.CupTokens{"a", "c"})
	v.NewVideoFormatDescriptors(availability.NewStringSet("HD"))
	v.NewVideoFormatDescriptors(availability.NewStringSet("UHD"))
	v.NewInWindowAvailabilityDate(200)
	v.NewInWindowAvailabilityDate(100)
	v.NewInWindowAvailabilityDate(300)

	assert.Equal(t, []string{"de", "fr"}, v.AssetBcp47Codes().Sorted())
	assert.Equal(t, int32(3), v.PrePromoDays())
	assert.Equal(t, availability.CupTokens{"b", "a", "c"}, v.CupTokens())
	assert.Equal(t, []string{"HD", "UHD"}, v.VideoFormatDescriptors().Sorted())
	d, ok := v.InWindowAvailabilityDate()
	assert.True(t, ok)
	assert.Equal(t, int64(100), d)

	assert.False(t, v.HasRollingEpisodes())
	assert.False(t, v.IsAvailableForDownload())
	assert.False(t, v.FoundLocalAudioFlag())
	assert.False(t, v.FoundLocalTextFlag())
	v.FoundRollingEpisodes()
	v.FoundAvailableForDownload()
	v.FoundLocalAudio()
	v.FoundLocalText()
	assert.True(t, v.HasRollingEpisodes())
	assert.True(t, v.IsAvailableForDownload())
	assert.True(t, v.FoundLocalAudioFlag())
	assert.True(t, v.FoundLocalTextFlag())
}

func TestValidWindow(t *testing.T) {
	v := New()
	v.StartEpisode(1)
	v.WindowFound(100, 200)
	v.WindowFound(150, 400)
	v.WindowFound(1000, 2000)

	tests := []struct {
		name       string
		start, end int64
		want       availability.DateWindow
		wantOK     bool
	}{
		{name: "covers first two", start: 0, end: 500, want: availability.DateWindow{StartDate: 100, EndDate: 400}, wantOK: true},
		{name: "clipped to query", start: 120, end: 300, want: availability.DateWindow{StartDate: 120, EndDate: 300}, wantOK: true},
		{name: "spans all", start: 0, end: 5000, want: availability.DateWindow{StartDate: 100, EndDate: 2000}, wantOK: true},
		{name: "gap", start: 500, end: 900},
		{name: "touching end is not overlap", start: 2000, end: 3000},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := v.ValidSeasonWindow(tt.start, tt.end)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			got, ok = v.ValidShowWindow(tt.start, tt.end)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSeasonWindow(t *testing.T) {
	v := New()
	v.StartEpisode(3)
	v.NewSeasonWindow(10, 20, true, v.SeasonSequenceNumber())

	want := []SeasonWindow{{DateWindow: availability.DateWindow{StartDate: 10, EndDate: 20}, OnHold: true, SeasonSequence: 3}}
	assert.Equal(t, want, v.SeasonWindows())
	v.StartShow()
	assert.Equal(t, want, v.SeasonWindows())
}

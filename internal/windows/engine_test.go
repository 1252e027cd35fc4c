package windows

import (
	"context"
	"testing"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/rights"
	"github.com/ManuGH/availwin/internal/rollup"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Preconditions(t *testing.T) {
	e := NewEngine(newSnapshot(), nil)

	_, err := e.Compute(context.Background(), Request{Status: statusOf(nil)}, nil)
	require.ErrorIs(t, err, ErrNilAccumulator)

	acc := episodeAccumulator()
	_, err = e.Compute(context.Background(), Request{}, acc)
	require.ErrorIs(t, err, ErrNilStatus)
	assert.False(t, acc.WasSeasonEpisodeFound())
}

func TestCompute_SingleCatalogContractWithAssetsOnly(t *testing.T) {
	e := NewEngine(newSnapshot(), nil)
	acc := episodeAccumulator()
	wc := rights.WindowContract{ContractID: 10, Assets: []rights.Asset{subtitles("fr")}}
	st := statusOf(&rights.Flags{GoLive: true}, window(t0, t0+30*day, wc))

	got := compute(t, e, SingleCatalog(), true, st, acc)

	want := []*availability.Window{{
		StartDate:            t0,
		EndDate:              t0 + 30*day,
		BundledAssetsGroupID: 10,
		InfosByPackage: map[availability.PackageKey]*availability.PackageContractInfo{
			availability.NoPackage: {
				Contract: availability.ContractInfo{
					ContractID:      10,
					CupTokens:       availability.DefaultCupTokens(),
					AssetBcp47Codes: availability.NewStringSet("fr"),
				},
				Package: availability.PackageInfo{
					Formats:          availability.NewStringSet(),
					IsDefaultPackage: true,
				},
			},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("windows mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, acc.WasSeasonEpisodeFound())
	assert.Equal(t, int32(10), acc.FirstEpisodeBundledAssetID())
	assert.Zero(t, acc.PrePromoDays())
}

func TestCompute_LocaleGating(t *testing.T) {
	snap := newSnapshot()
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true, Formats: []string{"HD"}})
	wc := withPackages(10, 500)
	wc.Assets = []rights.Asset{subtitles("fr")}
	flags := &rights.Flags{GoLive: true, SubsRequiredLanguages: []string{"fr"}}
	toggles := DefaultToggles()
	toggles.SubsDubsRequirementEnforced = true
	e := NewEngine(snap, togglesOf(toggles))

	t.Run("locale with subtitles", func(t *testing.T) {
		acc := episodeAccumulator()
		got := compute(t, e, MultiCatalog("fr"), true, statusOf(flags, window(t0, t0+30*day, wc)), acc)

		require.Len(t, got, 1)
		assert.Contains(t, got[0].InfosByPackage, availability.Package(500))
		assert.True(t, acc.FoundLocalTextFlag())
		assert.False(t, acc.FoundLocalAudioFlag())
		assert.True(t, acc.WasSeasonEpisodeFound())
		_, found := acc.ValidSeasonWindow(t0, t0+30*day)
		assert.True(t, found, "multi-catalog episode windows are recorded")
	})

	t.Run("locale without assets drops the window", func(t *testing.T) {
		acc := episodeAccumulator()
		got := compute(t, e, MultiCatalog("de"), true, statusOf(flags, window(t0, t0+30*day, wc)), acc)

		assert.Empty(t, got)
		assert.False(t, acc.WasSeasonEpisodeFound())
		assert.False(t, acc.FoundLocalTextFlag())
	})

	t.Run("language override falls back to single catalog", func(t *testing.T) {
		acc := episodeAccumulator()
		override := &rights.Flags{GoLive: true, LanguageOverride: true}
		got := compute(t, e, MultiCatalog("de"), true, statusOf(override, window(t0, t0+30*day, wc)), acc)

		require.Len(t, got, 1)
		assert.Contains(t, got[0].InfosByPackage, availability.Package(500))
		_, found := acc.ValidSeasonWindow(t0, t0+30*day)
		assert.True(t, found, "fallback still reports windows as multi-catalog")
	})
}

func TestCompute_SubsDubsEnforcement(t *testing.T) {
	snap := newSnapshot()
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true})
	wc := withPackages(10, 500)
	wc.Assets = []rights.Asset{subtitles("fr")}
	flags := &rights.Flags{GoLive: true, DubsRequiredLanguages: []string{"FR"}}
	st := statusOf(flags, window(t0, t0+30*day, wc))

	enforced := DefaultToggles()
	enforced.SubsDubsRequirementEnforced = true

	got := compute(t, NewEngine(snap, togglesOf(enforced)), MultiCatalog("fr"), true, st, episodeAccumulator())
	assert.Empty(t, got, "missing required dub skips the only contract")

	got = compute(t, NewEngine(snap, nil), MultiCatalog("fr"), true, st, episodeAccumulator())
	assert.Len(t, got, 1, "requirements are not enforced by default")
}

func TestCompute_RequirementSatisfiedByEarlierContract(t *testing.T) {
	snap := newSnapshot()
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true})
	snap.AddPackage(videoID, rights.Package{ID: 600, IsDefault: true})
	withSubs := withPackages(10, 500)
	withSubs.Assets = []rights.Asset{subtitles("fr")}
	audioOnly := withPackages(11, 600)
	audioOnly.Assets = []rights.Asset{audio("fr")}
	flags := &rights.Flags{GoLive: true, SubsRequiredLanguages: []string{"fr"}}

	toggles := DefaultToggles()
	toggles.SubsDubsRequirementEnforced = true
	e := NewEngine(snap, togglesOf(toggles))

	got := compute(t, e, MultiCatalog("fr"), true, statusOf(flags, window(t0, t0+30*day, withSubs, audioOnly)), episodeAccumulator())
	require.Len(t, got, 1)
	assert.Len(t, got[0].InfosByPackage, 2)

	got = compute(t, e, MultiCatalog("fr"), true, statusOf(flags, window(t0, t0+30*day, audioOnly)), episodeAccumulator())
	assert.Empty(t, got)
}

func TestCompute_PrePromotionToggle(t *testing.T) {
	snap := newSnapshot()
	snap.AddContract(videoID, country, rights.Contract{ContractID: 10, PrePromotionDays: 5})
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true})
	wc := withPackages(10, 500)
	wc.Assets = []rights.Asset{audio("en")}
	st := statusOf(nil, window(t0+10*day, t0+40*day, wc))

	got := compute(t, NewEngine(snap, nil), MultiCatalog("fr"), false, st, episodeAccumulator())
	assert.Empty(t, got)

	keep := DefaultToggles()
	keep.PrePromotionMultiLocale = true
	acc := episodeAccumulator()
	got = compute(t, NewEngine(snap, togglesOf(keep)), MultiCatalog("fr"), false, st, acc)
	require.Len(t, got, 1)
	info := got[0].InfosByPackage[availability.Package(500)]
	require.NotNil(t, info)
	assert.Equal(t, int32(5), info.Contract.PrePromotionDays)
	assert.Equal(t, int32(5), acc.PrePromoDays())
	assert.False(t, acc.WasSeasonEpisodeFound(), "not live")
}

func TestCompute_CupTokenMerge(t *testing.T) {
	tests := []struct {
		name       string
		firstID    int64
		firstTok   string
		secondID   int64
		secondTok  string
		wantTokens availability.CupTokens
		wantID     int32
	}{
		{name: "higher id merged into lower", firstID: 3, firstTok: "y", secondID: 5, secondTok: "x", wantTokens: availability.CupTokens{"x", "y"}, wantID: 5},
		{name: "lower id merged into higher", firstID: 5, firstTok: "y", secondID: 3, secondTok: "x", wantTokens: availability.CupTokens{"y", "x"}, wantID: 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			s := newSnapshot()
			s.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true})
			s.AddContract(videoID, country, rights.Contract{ContractID: tt.firstID, CupToken: tt.firstTok})
			s.AddContract(videoID, country, rights.Contract{ContractID: tt.secondID, CupToken: tt.secondTok})

			first := withPackages(tt.firstID, 500)
			first.Assets = []rights.Asset{subtitles("fr")}
			second := withPackages(tt.secondID, 500)
			second.Assets = []rights.Asset{audio("de")}
			second.Download = true

			got := compute(t, NewEngine(s, nil), SingleCatalog(), true,
				statusOf(nil, window(t0, t0+30*day, first, second)), episodeAccumulator())

			require.Len(t, got, 1)
			info := got[0].InfosByPackage[availability.Package(500)]
			require.NotNil(t, info)
			assert.Equal(t, tt.wantTokens, info.Contract.CupTokens)
			assert.Equal(t, tt.wantID, info.Contract.ContractID)
			assert.Equal(t, []string{"de", "fr"}, info.Contract.AssetBcp47Codes.Sorted())
			assert.True(t, info.Contract.IsAvailableForDownload)
			assert.Equal(t, int32(500), info.Contract.PrimaryPackageID)
			assert.Equal(t, int32(5), got[0].BundledAssetsGroupID)
		})
	}
}

func TestCompute_ExpiredWindowKeepsOnlyPlaceholder(t *testing.T) {
	snap := newSnapshot()
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true})
	snap.AddPackage(videoID, rights.Package{ID: 600, IsDefault: true})
	st := statusOf(nil, window(t0-60*day, t0-30*day, withPackages(10, 500), withPackages(12, 600)))
	acc := episodeAccumulator()

	got := compute(t, NewEngine(snap, nil), SingleCatalog(), true, st, acc)

	require.Len(t, got, 1)
	require.Len(t, got[0].InfosByPackage, 1)
	placeholder := got[0].InfosByPackage[availability.NoPackage]
	require.NotNil(t, placeholder)
	assert.Equal(t, int32(12), placeholder.Contract.ContractID)
	assert.Equal(t, int32(12), got[0].BundledAssetsGroupID)

	// No current window: the best-known contract anchors the episode.
	assert.True(t, acc.WasSeasonEpisodeFound())
	assert.Equal(t, int32(12), acc.FirstEpisodeBundledAssetID())
}

func TestCompute_OrderAndHoldOffset(t *testing.T) {
	e := NewEngine(newSnapshot(), nil)
	held := window(t0+1500, t0+40*day+1999, rights.WindowContract{ContractID: 1})
	held.OnHold = true
	later := window(t0+5*day, t0+50*day, rights.WindowContract{ContractID: 2})
	earlier := window(t0, t0+10*day, rights.WindowContract{ContractID: 3})

	got := compute(t, e, SingleCatalog(), true, statusOf(nil, held, later, earlier), episodeAccumulator())

	require.Len(t, got, 3)
	assert.Equal(t, t0, got[0].StartDate)
	assert.Equal(t, t0+5*day, got[1].StartDate)
	assert.True(t, got[2].OnHold)
	assert.Equal(t, t0+1000+HoldOffset, got[2].StartDate)
	assert.Equal(t, t0+40*day+1000+HoldOffset, got[2].EndDate)
	for _, w := range got[:2] {
		assert.False(t, w.OnHold)
		assert.Less(t, w.EndDate, HoldOffset)
	}
}

func TestCompute_FoldSelectsHighestSelectablePackage(t *testing.T) {
	snap := newSnapshot()
	snap.AddContract(videoID, country, rights.Contract{ContractID: 10, CupToken: "cup-a", HasRollingEpisodes: true})
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true, Formats: []string{"HD"}})
	snap.AddPackage(videoID, rights.Package{ID: 700, IsDefault: true, Formats: []string{"UHD"}})
	snap.AddPackage(videoID, rights.Package{ID: 900, Formats: []string{"8K"}})
	wc := withPackages(10, 500, 700, 900)
	wc.Download = true
	acc := episodeAccumulator()

	got := compute(t, NewEngine(snap, nil), SingleCatalog(), true, statusOf(nil, window(t0, t0+30*day, wc)), acc)

	require.Len(t, got, 1)
	assert.Len(t, got[0].InfosByPackage, 3)
	assert.Equal(t, int32(10), got[0].BundledAssetsGroupID)
	assert.Equal(t, []string{"UHD"}, acc.VideoFormatDescriptors().Sorted())
	assert.Equal(t, availability.CupTokens{"cup-a"}, acc.CupTokens())
	assert.True(t, acc.HasRollingEpisodes())
	assert.True(t, acc.IsAvailableForDownload())
	date, ok := acc.InWindowAvailabilityDate()
	assert.True(t, ok)
	assert.Equal(t, t0, date)
}

func TestCompute_FutureWindowSkipsLiveOnlyFacts(t *testing.T) {
	snap := newSnapshot()
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true, Formats: []string{"HD"}})
	acc := episodeAccumulator()

	got := compute(t, NewEngine(snap, nil), SingleCatalog(), true,
		statusOf(nil, window(now+day, now+30*day, withPackages(10, 500))), acc)

	require.Len(t, got, 1)
	assert.Empty(t, acc.VideoFormatDescriptors(), "formats need an open window")
	assert.Nil(t, acc.CupTokens())
	_, ok := acc.InWindowAvailabilityDate()
	assert.False(t, ok)
	assert.True(t, acc.WasSeasonEpisodeFound())
}

func TestCompute_RolledUp(t *testing.T) {
	snap := newSnapshot()
	runtime := int64(3600)
	snap.AddGeneral(rights.General{VideoID: 200, RuntimeSeconds: &runtime})
	snap.AddContract(videoID, country, rights.Contract{ContractID: 10, CupToken: "cup-a"})
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true, Formats: []string{"HD"}})
	e := NewEngine(snap, nil)

	acc := episodeAccumulator()
	compute(t, e, SingleCatalog(), true, statusOf(nil, window(t0, t0+30*day, withPackages(10, 500))), acc)
	require.True(t, acc.WasSeasonEpisodeFound())

	acc.StartSeason(1)
	season := &rights.Status{VideoID: 200, Country: country, Rights: rights.Rights{Windows: []rights.Window{
		window(t0, t0+60*day, rights.WindowContract{ContractID: 30}),
	}}}

	got := compute(t, e, SingleCatalog(), true, season, acc)

	want := []*availability.Window{{
		StartDate:            t0,
		EndDate:              t0 + 60*day,
		BundledAssetsGroupID: 10,
		InfosByPackage: map[availability.PackageKey]*availability.PackageContractInfo{
			availability.NoPackage: {
				Contract: availability.ContractInfo{
					ContractID:      10,
					CupTokens:       availability.CupTokens{"cup-a"},
					AssetBcp47Codes: availability.NewStringSet(),
				},
				Package: availability.PackageInfo{
					Formats:          availability.NewStringSet("HD"),
					RuntimeSeconds:   3600,
					IsDefaultPackage: true,
				},
			},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rolled-up windows mismatch (-want +got):\n%s", diff)
	}

	notLive := compute(t, e, SingleCatalog(), false, season, acc)
	require.Len(t, notLive, 1)
	assert.Empty(t, notLive[0].InfosByPackage[availability.NoPackage].Package.Formats)
}

func TestCompute_RolledUpWithoutFirstEpisodeIDUsesMaxContract(t *testing.T) {
	e := NewEngine(newSnapshot(), nil)
	acc := rollup.New()
	acc.StartEpisode(1)
	acc.NewEpisodeData(true, 0)
	acc.StartShow()

	show := statusOf(nil,
		window(t0+5*day, t0+10*day, rights.WindowContract{ContractID: 7}),
		window(t0, t0+3*day, rights.WindowContract{ContractID: 4}, rights.WindowContract{ContractID: 2}),
	)
	got := compute(t, e, SingleCatalog(), true, show, acc)

	require.Len(t, got, 2)
	assert.Equal(t, int32(4), got[0].BundledAssetsGroupID)
	assert.Equal(t, int32(7), got[1].BundledAssetsGroupID)
	info := got[1].InfosByPackage[availability.NoPackage]
	assert.Equal(t, availability.DefaultCupTokens(), info.Contract.CupTokens)
	assert.Zero(t, info.Package.RuntimeSeconds)
}

func TestCompute_RolledUpMultiCatalogClipsToEpisodes(t *testing.T) {
	snap := newSnapshot()
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true})
	wc := withPackages(10, 500)
	wc.Assets = []rights.Asset{subtitles("fr")}
	e := NewEngine(snap, nil)

	acc := episodeAccumulator()
	compute(t, e, MultiCatalog("fr"), true, statusOf(nil, window(t0, t0+30*day, wc)), acc)
	require.True(t, acc.FoundLocalTextFlag())

	acc.StartSeason(1)
	season := statusOf(nil,
		window(t0-10*day, t0+60*day, rights.WindowContract{ContractID: 30}),
		window(t0+100*day, t0+200*day, rights.WindowContract{ContractID: 31}),
	)
	got := compute(t, e, MultiCatalog("fr"), true, season, acc)

	require.Len(t, got, 1)
	assert.Equal(t, t0, got[0].StartDate)
	assert.Equal(t, t0+30*day, got[0].EndDate)
	assert.Equal(t, int32(10), got[0].BundledAssetsGroupID)
}

func TestCompute_EmptyRights(t *testing.T) {
	e := NewEngine(newSnapshot(), nil)

	assert.Empty(t, compute(t, e, SingleCatalog(), true, statusOf(nil), episodeAccumulator()))

	acc := episodeAccumulator()
	acc.NewEpisodeData(true, 1)
	acc.StartSeason(1)
	assert.Empty(t, compute(t, e, SingleCatalog(), true, statusOf(nil), acc))
}

func TestPopulateWindowData(t *testing.T) {
	e := NewEngine(newSnapshot(), nil)
	acc := episodeAccumulator()
	st := statusOf(&rights.Flags{GoLive: true}, window(t0, t0+30*day, rights.WindowContract{ContractID: 10}))

	got, err := e.PopulateWindowData(context.Background(), videoID, country, st, acc)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].InfosByPackage, availability.NoPackage)
	assert.True(t, acc.WasSeasonEpisodeFound(), "go-live comes from the status flags")
	assert.Len(t, acc.SeasonWindows(), 1)
}

func TestEngine_Reset(t *testing.T) {
	snap := newSnapshot()
	snap.AddPackage(videoID, rights.Package{ID: 500, IsDefault: true})
	e := NewEngine(snap, nil)

	compute(t, e, SingleCatalog(), true, statusOf(nil, window(t0, t0+30*day, withPackages(10, 500))), episodeAccumulator())
	assert.Equal(t, 1, e.builder.CachedPackages())

	e.Reset()
	assert.Zero(t, e.builder.CachedPackages())
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package rollup accumulates episode facts into season and show summaries.
//
// One Values is created per title and country (and locale in multi-catalog
// processing). The caller moves it through the hierarchy: StartEpisode for
// every episode of a season, then StartSeason, and finally StartShow. Facts
// reported at any level are folded into both the season and the show bucket;
// queries read the bucket of the current level.
//
// Values is not safe for concurrent use.
package rollup

import (
	"github.com/ManuGH/availwin/internal/availability"
)

// Level is the hierarchy level currently being processed.
type Level int

const (
	LevelEpisode Level = iota
	LevelSeason
	LevelShow
)

func (l Level) String() string {
	switch l {
	case LevelSeason:
		return "season"
	case LevelShow:
		return "show"
	default:
		return "episode"
	}
}

// SeasonWindow is a live window reported by an episode of a season.
type SeasonWindow struct {
	availability.DateWindow
	OnHold         bool `json:"onHold"`
	SeasonSequence int  `json:"seasonSequence"`
}

type bucket struct {
	episodeFound     bool
	firstBundledID   int32
	bcp47            availability.StringSet
	prePromoDays     int32
	rolling          bool
	download         bool
	localAudio       bool
	localText        bool
	cupTokens        availability.CupTokens
	formats          availability.StringSet
	foundWindows     []availability.DateWindow
	seasonWindows    []SeasonWindow
	inWindowDate     int64
	haveInWindowDate bool
}

func newBucket() *bucket {
	return &bucket{
		bcp47:   availability.NewStringSet(),
		formats: availability.NewStringSet(),
	}
}

// Values is the mutable rollup accumulator.
type Values struct {
	level     Level
	seasonSeq int
	started   bool

	season *bucket
	show   *bucket
}

// New returns an accumulator positioned at episode level of no season.
func New() *Values {
	return &Values{season: newBucket(), show: newBucket()}
}

func (v *Values) enterSeason(seq int) {
	if !v.started || seq != v.seasonSeq {
		v.season = newBucket()
	}
	v.seasonSeq = seq
	v.started = true
}

// StartEpisode positions the accumulator at an episode of season seq.
// Moving to a different season discards the previous season's bucket.
func (v *Values) StartEpisode(seq int) {
	v.enterSeason(seq)
	v.level = LevelEpisode
}

// StartSeason positions the accumulator at the season itself.
func (v *Values) StartSeason(seq int) {
	v.enterSeason(seq)
	v.level = LevelSeason
}

// StartShow positions the accumulator at the show.
func (v *Values) StartShow() {
	v.level = LevelShow
}

// Level returns the current level.
func (v *Values) Level() Level { return v.level }

func (v *Values) current() *bucket {
	if v.level == LevelShow {
		return v.show
	}
	return v.season
}

func (v *Values) each(fn func(*bucket)) {
	fn(v.season)
	fn(v.show)
}

// DoEpisode reports episode level.
func (v *Values) DoEpisode() bool { return v.level == LevelEpisode }

// DoSeason reports season level.
func (v *Values) DoSeason() bool { return v.level == LevelSeason }

// DoShow reports show level.
func (v *Values) DoShow() bool { return v.level == LevelShow }

// WasSeasonEpisodeFound reports whether a live episode anchored the season.
func (v *Values) WasSeasonEpisodeFound() bool { return v.season.episodeFound }

// WasShowEpisodeFound reports whether a live episode anchored the show.
func (v *Values) WasShowEpisodeFound() bool { return v.show.episodeFound }

// SeasonSequenceNumber is the sequence of the season being processed.
func (v *Values) SeasonSequenceNumber() int { return v.seasonSeq }

// ValidSeasonWindow clips [start, end) to the span of the season's recorded
// windows that overlap it.
func (v *Values) ValidSeasonWindow(start, end int64) (availability.DateWindow, bool) {
	return validWindow(v.season.foundWindows, start, end)
}

// ValidShowWindow is ValidSeasonWindow for the show bucket.
func (v *Values) ValidShowWindow(start, end int64) (availability.DateWindow, bool) {
	return validWindow(v.show.foundWindows, start, end)
}

func validWindow(found []availability.DateWindow, start, end int64) (availability.DateWindow, bool) {
	query := availability.DateWindow{StartDate: start, EndDate: end}
	var span availability.DateWindow
	ok := false
	for _, w := range found {
		if !w.Overlaps(query) {
			continue
		}
		if !ok {
			span = w
			ok = true
			continue
		}
		span.StartDate = min(span.StartDate, w.StartDate)
		span.EndDate = max(span.EndDate, w.EndDate)
	}
	if !ok {
		return availability.DateWindow{}, false
	}
	span.StartDate = max(span.StartDate, start)
	span.EndDate = min(span.EndDate, end)
	return span, true
}

// AssetBcp47Codes returns the union of reported language codes.
func (v *Values) AssetBcp47Codes() availability.StringSet { return v.current().bcp47 }

// PrePromoDays returns the largest reported pre-promotion period.
func (v *Values) PrePromoDays() int32 { return v.current().prePromoDays }

// HasRollingEpisodes reports whether any episode had rolling episodes.
func (v *Values) HasRollingEpisodes() bool { return v.current().rolling }

// IsAvailableForDownload reports whether any episode was downloadable.
func (v *Values) IsAvailableForDownload() bool { return v.current().download }

// FoundLocalAudioFlag reports whether local audio was seen for the locale.
func (v *Values) FoundLocalAudioFlag() bool { return v.current().localAudio }

// FoundLocalTextFlag reports whether local subtitles were seen for the locale.
func (v *Values) FoundLocalTextFlag() bool { return v.current().localText }

// CupTokens returns the ordered union of reported tokens, nil when none.
func (v *Values) CupTokens() availability.CupTokens { return v.current().cupTokens }

// VideoFormatDescriptors returns the union of reported formats.
func (v *Values) VideoFormatDescriptors() availability.StringSet { return v.current().formats }

// FirstEpisodeBundledAssetID is the bundled-assets group id of the first
// live episode that reported a non-zero one.
func (v *Values) FirstEpisodeBundledAssetID() int32 { return v.current().firstBundledID }

// InWindowAvailabilityDate is the earliest reported start of an open window.
func (v *Values) InWindowAvailabilityDate() (int64, bool) {
	b := v.current()
	return b.inWindowDate, b.haveInWindowDate
}

// SeasonWindows returns the live windows reported for the current bucket.
func (v *Values) SeasonWindows() []SeasonWindow { return v.current().seasonWindows }

// NewInWindowAvailabilityDate keeps the earliest start of an open window.
func (v *Values) NewInWindowAvailabilityDate(date int64) {
	v.each(func(b *bucket) {
		if !b.haveInWindowDate || date < b.inWindowDate {
			b.inWindowDate = date
			b.haveInWindowDate = true
		}
	})
}

// WindowFound records a window that carries episode data.
func (v *Values) WindowFound(start, end int64) {
	w := availability.DateWindow{StartDate: start, EndDate: end}
	v.each(func(b *bucket) { b.foundWindows = append(b.foundWindows, w) })
}

// NewSeasonWindow records a live episode window for season seq.
func (v *Values) NewSeasonWindow(start, end int64, onHold bool, seq int) {
	w := SeasonWindow{
		DateWindow:     availability.DateWindow{StartDate: start, EndDate: end},
		OnHold:         onHold,
		SeasonSequence: seq,
	}
	v.each(func(b *bucket) { b.seasonWindows = append(b.seasonWindows, w) })
}

// NewAssetBcp47Codes adds codes to the language union.
func (v *Values) NewAssetBcp47Codes(codes availability.StringSet) {
	v.each(func(b *bucket) {
		for c := range codes {
			b.bcp47.Add(c)
		}
	})
}

// NewPrePromoDays raises the pre-promotion period to days.
func (v *Values) NewPrePromoDays(days int32) {
	v.each(func(b *bucket) { b.prePromoDays = max(b.prePromoDays, days) })
}

// FoundRollingEpisodes marks rolling episodes.
func (v *Values) FoundRollingEpisodes() {
	v.each(func(b *bucket) { b.rolling = true })
}

// FoundAvailableForDownload marks the title downloadable.
func (v *Values) FoundAvailableForDownload() {
	v.each(func(b *bucket) { b.download = true })
}

// FoundLocalAudio marks local audio for the locale.
func (v *Values) FoundLocalAudio() {
	v.each(func(b *bucket) { b.localAudio = true })
}

// FoundLocalText marks local subtitles for the locale.
func (v *Values) FoundLocalText() {
	v.each(func(b *bucket) { b.localText = true })
}

// NewVideoFormatDescriptors adds formats to the format union.
func (v *Values) NewVideoFormatDescriptors(formats availability.StringSet) {
	v.each(func(b *bucket) {
		for f := range formats {
			b.formats.Add(f)
		}
	})
}

// NewCupTokens appends tokens not seen yet, keeping first-seen order.
func (v *Values) NewCupTokens(tokens availability.CupTokens) {
	v.each(func(b *bucket) { b.cupTokens = b.cupTokens.Union(tokens) })
}

// NewEpisodeData reports an episode's go-live state and bundled-assets
// group id. Only live episodes anchor the season and show.
func (v *Values) NewEpisodeData(isLive bool, bundledAssetsGroupID int32) {
	if !isLive {
		return
	}
	v.each(func(b *bucket) {
		b.episodeFound = true
		if b.firstBundledID == 0 && bundledAssetsGroupID != 0 {
			b.firstBundledID = bundledAssetsGroupID
		}
	})
}

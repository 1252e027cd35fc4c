// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package windows

import (
	"errors"
	"time"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/rights"
)

var (
	// ErrNilAccumulator is returned when Compute is called without an accumulator.
	ErrNilAccumulator = errors.New("windows: nil rollup accumulator")
	// ErrNilStatus is returned when Compute is called without a status record.
	ErrNilStatus = errors.New("windows: nil status")
)

// Resolver supplies the cycle's reference data. Absent records report false.
type Resolver interface {
	Contract(videoID int64, country string, contractID int64) (rights.Contract, bool)
	Package(videoID, packageID int64) (rights.Package, bool)
	General(videoID int64) (rights.General, bool)
	// NowMillis is the cycle's logical clock, constant for the whole cycle.
	NowMillis() int64
}

// Accumulator receives the facts of episode computations and answers the
// season and show queries of rolled-up computations.
type Accumulator interface {
	DoShow() bool
	DoSeason() bool
	DoEpisode() bool
	WasShowEpisodeFound() bool
	WasSeasonEpisodeFound() bool
	SeasonSequenceNumber() int
	ValidShowWindow(start, end int64) (availability.DateWindow, bool)
	ValidSeasonWindow(start, end int64) (availability.DateWindow, bool)
	AssetBcp47Codes() availability.StringSet
	PrePromoDays() int32
	HasRollingEpisodes() bool
	IsAvailableForDownload() bool
	CupTokens() availability.CupTokens
	VideoFormatDescriptors() availability.StringSet
	FirstEpisodeBundledAssetID() int32

	NewInWindowAvailabilityDate(date int64)
	WindowFound(start, end int64)
	NewSeasonWindow(start, end int64, onHold bool, seasonSequence int)
	NewAssetBcp47Codes(codes availability.StringSet)
	NewPrePromoDays(days int32)
	FoundRollingEpisodes()
	FoundAvailableForDownload()
	NewVideoFormatDescriptors(formats availability.StringSet)
	NewCupTokens(tokens availability.CupTokens)
	NewEpisodeData(isLive bool, bundledAssetsGroupID int32)
	FoundLocalAudio()
	FoundLocalText()
}

// Toggles are the feature switches read once per computation.
type Toggles struct {
	// SubsDubsRequirementEnforced skips contract/package pairs that miss a
	// required subtitle or dub for the locale, outside pre-promotion.
	SubsDubsRequirementEnforced bool
	// PrePromotionMultiLocale keeps contract/package pairs without local
	// assets while the title is in pre-promotion.
	PrePromotionMultiLocale bool
	// FutureCutoff filters windows starting further ahead than this.
	FutureCutoff time.Duration
	// UnfilteredQuota is the number of windows per title that are always
	// kept once they end in the future.
	UnfilteredQuota int
}

// DefaultToggles returns the production defaults.
func DefaultToggles() Toggles {
	return Toggles{
		FutureCutoff:    360 * 24 * time.Hour,
		UnfilteredQuota: 3,
	}
}

// Mode selects single- or multi-catalog processing.
type Mode struct {
	locale string
	multi  bool
}

// SingleCatalog processes without locale data.
func SingleCatalog() Mode { return Mode{} }

// MultiCatalog processes for one locale.
func MultiCatalog(locale string) Mode { return Mode{locale: locale, multi: true} }

// ModeFor returns MultiCatalog(locale) for a non-empty locale and
// SingleCatalog otherwise.
func ModeFor(locale string) Mode {
	if locale == "" {
		return SingleCatalog()
	}
	return MultiCatalog(locale)
}

// Locale returns the locale and whether the mode is multi-catalog.
func (m Mode) Locale() (string, bool) { return m.locale, m.multi }

// IsMulti reports multi-catalog processing.
func (m Mode) IsMulti() bool { return m.multi }

func (m Mode) String() string {
	if !m.multi {
		return "single"
	}
	return "multi:" + m.locale
}

// Request identifies one computation.
type Request struct {
	VideoID int64
	Country string
	Mode    Mode
	// Status carries the rights windows and the flags.
	Status *rights.Status
	IsLive bool
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package windows

import (
	"math"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/contractinfo"
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/metrics"
	"github.com/ManuGH/availwin/internal/rights"
	"github.com/rs/zerolog"
)

// episodeRun holds the state of one episode-path computation.
type episodeRun struct {
	res     Resolver
	builder *contractinfo.Builder
	acc     Accumulator
	toggles Toggles
	logger  zerolog.Logger

	videoID int64
	country string
	live    bool
	mode    Mode
	flags   *rights.Flags
	now     int64
	reqs    requirements

	// multicatalogRollup stays true when a locale-scoped call falls back to
	// single-catalog processing.
	multicatalogRollup bool

	current           *availability.Window
	currentLocalAudio bool
	currentLocalText  bool
	inWindow          bool
	minStart          int64
	includedCount     int
	maxPackageID      int32
	contractForMax    int32
}

// windowState is the per-window part of the merge.
type windowState struct {
	raw              rights.Window
	out              *availability.Window
	filtered         bool
	prePromo         bool
	packageForWindow int32
	bundled          int32
	included         bool
	localAudio       bool
	localText        bool
}

func (r *episodeRun) run(windows []rights.Window) []*availability.Window {
	r.minStart = math.MaxInt64
	if locale, ok := r.mode.Locale(); ok {
		r.reqs = localeRequirements(locale, r.flags)
		if r.reqs.localization {
			// Localization requirements are recorded but not enforced.
			r.logger.Debug().Msg("localized metadata required for locale, not enforced")
		}
	}

	var out []*availability.Window
	for _, raw := range SortWindows(windows) {
		ws := r.openWindow(raw)
		for _, wc := range raw.Contracts {
			r.mergeContract(ws, wc)
		}
		ws.out.BundledAssetsGroupID = ws.bundled

		if !r.mode.IsMulti() || len(ws.out.InfosByPackage) > 0 {
			out = append(out, ws.out)
			if r.acc.DoEpisode() {
				if r.multicatalogRollup {
					r.acc.WindowFound(ws.out.StartDate, ws.out.EndDate)
				}
				if r.live {
					r.acc.NewSeasonWindow(ws.out.StartDate, ws.out.EndDate, ws.out.OnHold, r.acc.SeasonSequenceNumber())
				}
			}
		}
		if ws.included {
			r.includedCount++
		}
	}

	r.fold()

	if r.mode.IsMulti() && len(out) == 0 {
		r.logger.Info().
			Strs(log.FieldTag, log.Tags(log.TagLocaleMerching)).
			Msg("title not merchandised in this locale")
		metrics.RecordNotMerchandised()
	}
	return out
}

func (r *episodeRun) openWindow(raw rights.Window) *windowState {
	start, end := OutputDates(raw)
	ws := &windowState{
		raw: raw,
		out: availability.NewWindow(start, end, raw.OnHold),
	}
	ids := raw.ContractIDs()
	ws.filtered = shouldFilter(r.res, r.toggles, filterInput{
		videoID:         r.videoID,
		country:         r.country,
		live:            r.live,
		contractIDs:     ids,
		unfilteredCount: r.includedCount,
		start:           start,
		end:             end,
	})

	if !r.live && r.mode.IsMulti() {
		for _, id := range ids {
			if c, ok := r.res.Contract(r.videoID, r.country, id); ok && c.PrePromotionDays > 0 {
				ws.prePromo = true
				break
			}
		}
		if ws.prePromo {
			r.logger.Info().
				Strs(log.FieldTag, log.Tags(log.TagPrePromotion)).
				Int64("window_start", raw.StartDate).
				Msg("title is in pre-promotion")
		}
	}
	return ws
}

func (r *episodeRun) lookupContract(id int64) *rights.Contract {
	c, ok := r.res.Contract(r.videoID, r.country, id)
	if !ok {
		r.logger.Debug().
			Strs(log.FieldTag, log.Tags(log.TagMissingReference)).
			Int64(log.FieldContract, id).
			Msg("contract not found, using defaults")
		return nil
	}
	return &c
}

func (r *episodeRun) mergeContract(ws *windowState, wc rights.WindowContract) {
	cid := int32(wc.ContractID)
	contract := r.lookupContract(wc.ContractID)

	if !wc.HasPackagesOrAssets() {
		if r.mode.IsMulti() {
			return
		}
		ws.out.InfosByPackage[availability.NoPackage] = r.builder.Filtered(cid)
		if r.maxPackageID == 0 {
			r.contractForMax = cid
			ws.bundled = max(ws.bundled, cid)
		}
		return
	}

	if len(wc.Packages) == 0 {
		if r.mode.IsMulti() {
			return
		}
		ws.out.InfosByPackage[availability.NoPackage] = r.builder.WithoutPackage(0, wc, contract)
		if ws.packageForWindow == 0 {
			ws.bundled = max(ws.bundled, cid)
		}
		if r.maxPackageID == 0 {
			r.contractForMax = max(r.contractForMax, cid)
		}
		return
	}

	contractBits := int64(-1)
	if locale, ok := r.mode.Locale(); ok {
		contractBits = contractAvailability(locale, wc.Assets)
	}
	for _, cp := range wc.Packages {
		r.mergePackage(ws, wc, contract, cp, contractBits)
	}
}

func (r *episodeRun) mergePackage(ws *windowState, wc rights.WindowContract, contract *rights.Contract, cp rights.ContractPackage, contractBits int64) {
	key := availability.Package(int32(cp.PackageID))

	var pkg *rights.Package
	if p, ok := r.res.Package(r.videoID, cp.PackageID); ok {
		pkg = &p
	}

	if locale, ok := r.mode.Locale(); ok {
		if !r.passesLocale(ws, locale, wc, cp, pkg, contractBits) {
			return
		}
	}

	if existing, ok := ws.out.InfosByPackage[key]; ok {
		r.mergeExisting(ws, key, existing, wc, contract, cp)
		return
	}
	r.createEntry(ws, key, wc, contract, pkg)
	r.trackCurrent(ws)
}

// passesLocale applies locale gating and subs/dubs enforcement to one
// contract/package pair, recording local audio and text on the way.
func (r *episodeRun) passesLocale(ws *windowState, locale string, wc rights.WindowContract, cp rights.ContractPackage, pkg *rights.Package, contractBits int64) bool {
	skip := func(reason string, tags ...log.Tag) zerolog.Context {
		metrics.RecordContractSkip(reason)
		return r.logger.With().
			Strs(log.FieldTag, log.Tags(tags...)).
			Int64(log.FieldContract, wc.ContractID).
			Int64(log.FieldPackageID, cp.PackageID)
	}

	avail := packageAvailability(locale, pkg, contractBits)
	if avail == 0 {
		if !ws.prePromo {
			l := skip(metrics.SkipNoLocalAssets, log.TagLocaleMerching).Logger()
			l.Info().Msg("skipping contract: no localized assets in package")
			return false
		}
		if !r.toggles.PrePromotionMultiLocale {
			l := skip(metrics.SkipPrePromoAssetsMissing, log.TagPrePromotion).Logger()
			l.Debug().Msg("skipping contract: localized assets missing during pre-promotion")
			return false
		}
		r.logger.Info().
			Strs(log.FieldTag, log.Tags(log.TagPrePromotion)).
			Int64(log.FieldContract, wc.ContractID).
			Msg("localized assets missing, keeping contract during pre-promotion")
	}

	consider := pkg == nil || pkg.IsDefault || len(wc.Packages) == 1
	if consider && avail&rights.BitAudio != 0 {
		ws.localAudio = true
		if r.current == ws.out {
			r.currentLocalAudio = true
		}
	}
	if consider && avail&rights.BitSubtitles != 0 {
		ws.localText = true
		if r.current == ws.out {
			r.currentLocalText = true
		}
	}

	if r.toggles.SubsDubsRequirementEnforced && !ws.prePromo {
		if r.reqs.subs && !ws.localText {
			l := skip(metrics.SkipMissingSubs, log.TagLocaleMerching, log.TagLocaleMerchingMissingSubs).Logger()
			l.Info().Msg("skipping contract: required subtitles missing")
			return false
		}
		if r.reqs.dubs && !ws.localAudio {
			l := skip(metrics.SkipMissingDubs, log.TagLocaleMerching, log.TagLocaleMerchingMissingDubs).Logger()
			l.Info().Msg("skipping contract: required dubs missing")
			return false
		}
	}
	return true
}

// raiseTrackers propagates a contract id to the video and window trackers
// when key is the package they currently follow.
func (r *episodeRun) raiseTrackers(ws *windowState, key availability.PackageKey, cid int32) {
	if key.Value() == r.maxPackageID {
		r.contractForMax = max(r.contractForMax, cid)
	}
	if key.Value() == ws.packageForWindow {
		ws.bundled = max(ws.bundled, cid)
	}
}

func (r *episodeRun) mergeExisting(ws *windowState, key availability.PackageKey, existing *availability.PackageContractInfo, wc rights.WindowContract, contract *rights.Contract, cp rights.ContractPackage) {
	cid := int32(wc.ContractID)

	if ws.filtered {
		if cid > existing.Contract.ContractID {
			existing.Contract.ContractID = cid
			r.raiseTrackers(ws, key, cid)
		}
		return
	}

	lead := existing.Contract.ContractID <= cid
	merged := existing.Clone()
	merged.Contract.CupTokens = existing.Contract.CupTokens.Merge(contractinfo.CupToken(contract), lead)
	codes := existing.Contract.AssetBcp47Codes.Clone()
	if codes == nil {
		codes = availability.NewStringSet()
	}
	for _, a := range wc.Assets {
		codes.Add(a.Bcp47Code)
	}
	merged.Contract.AssetBcp47Codes = codes
	merged.Contract.ContractID = max(existing.Contract.ContractID, cid)
	merged.Contract.IsAvailableForDownload = existing.Contract.IsAvailableForDownload || wc.Download
	merged.Contract.PrimaryPackageID = max(existing.Contract.PrimaryPackageID, int32(cp.PackageID))
	ws.out.InfosByPackage[key] = merged

	r.raiseTrackers(ws, key, cid)
}

func (r *episodeRun) createEntry(ws *windowState, key availability.PackageKey, wc rights.WindowContract, contract *rights.Contract, pkg *rights.Package) {
	cid := int32(wc.ContractID)

	if ws.filtered {
		if f, ok := ws.out.InfosByPackage[availability.NoPackage]; ok {
			f.Contract.ContractID = max(f.Contract.ContractID, cid)
		} else {
			ws.out.InfosByPackage[availability.NoPackage] = r.builder.Filtered(cid)
		}
		if r.maxPackageID == 0 {
			r.contractForMax = max(r.contractForMax, cid)
		}
		if ws.packageForWindow == 0 {
			ws.bundled = max(ws.bundled, cid)
		}
		return
	}

	ws.included = true

	if pkg == nil {
		ws.out.InfosByPackage[key] = r.builder.WithoutPackage(key.Value(), wc, contract)
		if ws.packageForWindow == 0 {
			ws.bundled = max(ws.bundled, cid)
		}
		if r.maxPackageID == 0 {
			r.contractForMax = max(r.contractForMax, cid)
		}
		return
	}

	ws.out.InfosByPackage[key] = r.builder.WithPackage(r.videoID, *pkg, wc, contract)
	if !pkg.IsDefault && len(wc.Packages) != 1 {
		return
	}
	id := int32(pkg.ID)
	if id > r.maxPackageID {
		r.maxPackageID = id
		r.contractForMax = cid
	}
	if id > ws.packageForWindow {
		ws.packageForWindow = id
		ws.bundled = max(ws.bundled, cid)
	}
}

// trackCurrent notes open windows and keeps the current-or-first-future
// window, the one with the earliest start among windows not yet ended.
// Raw dates are compared, without the hold offset.
func (r *episodeRun) trackCurrent(ws *windowState) {
	start, end := ws.raw.StartDate, ws.raw.EndDate

	if r.live && end > r.now && start < r.now {
		r.acc.NewInWindowAvailabilityDate(start)
		r.inWindow = true
	}

	if end > r.now && start < r.minStart {
		r.minStart = start
		r.current = ws.out
		r.currentLocalAudio = ws.localAudio
		r.currentLocalText = ws.localText
	}
}

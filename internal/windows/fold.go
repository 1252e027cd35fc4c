// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package windows

import (
	"math"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/log"
)

// selection is the entry of the current window that drives the rollup.
type selection struct {
	key      availability.PackageKey
	codes    availability.StringSet
	formats  availability.StringSet
	prePromo int32
	rolling  bool
	download bool
	cups     availability.CupTokens
}

// selectEntry picks the selectable entry with the highest package id.
// Default packages are selectable; so is the only entry of a window.
func (r *episodeRun) selectEntry(w *availability.Window) selection {
	var sel selection
	best := int32(math.MinInt32)
	for key, info := range w.InfosByPackage {
		consider := info.Package.IsDefaultPackage
		if !consider && len(w.InfosByPackage) == 1 {
			consider = true
			r.logger.Warn().
				Strs(log.FieldTag, log.Tags(log.TagInteractivePackage)).
				Str(log.FieldPackageID, key.String()).
				Msg("only one non-default package found")
		}
		if !consider || key.Value() <= best {
			continue
		}
		best = key.Value()
		sel = selection{
			key:      key,
			codes:    info.Contract.AssetBcp47Codes,
			formats:  info.Package.Formats,
			prePromo: max(info.Contract.PrePromotionDays, 0),
			rolling:  info.Contract.HasRollingEpisodes,
			download: info.Contract.IsAvailableForDownload,
			cups:     info.Contract.CupTokens,
		}
	}
	return sel
}

// fold pushes the current-or-first-future window's summary into the
// accumulator.
func (r *episodeRun) fold() {
	if r.current == nil {
		if r.mode.IsMulti() {
			return
		}
		// No window is current or upcoming: report the best-known contract
		// and clear pre-promotion for the episode.
		r.acc.NewEpisodeData(r.live, r.contractForMax)
		if r.acc.DoEpisode() {
			r.acc.NewPrePromoDays(0)
		}
		return
	}

	sel := r.selectEntry(r.current)

	r.acc.NewAssetBcp47Codes(sel.codes)
	r.acc.NewPrePromoDays(sel.prePromo)
	if sel.rolling {
		r.acc.FoundRollingEpisodes()
	}
	if sel.download {
		r.acc.FoundAvailableForDownload()
	}
	if r.live && r.inWindow {
		r.acc.NewVideoFormatDescriptors(sel.formats)
		r.acc.NewCupTokens(sel.cups)
	}
	r.acc.NewEpisodeData(r.live, r.current.BundledAssetsGroupID)

	if r.mode.IsMulti() {
		if r.currentLocalAudio {
			r.acc.FoundLocalAudio()
		}
		if r.currentLocalText {
			r.acc.FoundLocalText()
		}
	}
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package windows

import (
	"math"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/rights"
)

// rolledUp synthesizes season or show windows from the accumulator's
// aggregated values. In multi-catalog mode each window is clipped to the
// span that actually carries episodes, and dropped when there is none.
func (e *Engine) rolledUp(req Request, acc Accumulator, multi bool) []*availability.Window {
	sorted := SortWindows(req.Status.Rights.Windows)
	if len(sorted) == 0 {
		return nil
	}

	now := e.resolver.NowMillis()
	general, hasGeneral := e.resolver.General(req.VideoID)

	inWindow := false
	maxContract := int32(math.MinInt32)
	out := make([]*availability.Window, 0, len(sorted))

	for _, raw := range sorted {
		start, end := raw.StartDate, raw.EndDate
		if raw.OnHold {
			start += HoldOffset
			end += HoldOffset
		}
		if start < now && end > now {
			inWindow = true
		}
		for _, c := range raw.Contracts {
			maxContract = max(maxContract, int32(c.ContractID))
		}

		if multi {
			// Episode spans are matched on the raw dates; the clipped span
			// then takes the hold offset once.
			var (
				valid availability.DateWindow
				ok    bool
			)
			if acc.DoShow() {
				valid, ok = acc.ValidShowWindow(raw.StartDate, raw.EndDate)
			} else {
				valid, ok = acc.ValidSeasonWindow(raw.StartDate, raw.EndDate)
			}
			if !ok {
				continue
			}
			start, end = valid.StartDate, valid.EndDate
			if raw.OnHold {
				start += HoldOffset
				end += HoldOffset
			}
		}

		w := availability.NewWindow(RoundDate(start), RoundDate(end), raw.OnHold)
		w.BundledAssetsGroupID = maxContract
		info := rolledUpInfo(acc, maxContract, req.IsLive && inWindow, general, hasGeneral)
		if first := acc.FirstEpisodeBundledAssetID(); first != 0 {
			w.BundledAssetsGroupID = first
			info.Contract.ContractID = first
		}
		w.InfosByPackage[availability.NoPackage] = info
		out = append(out, w)
	}
	return out
}

func rolledUpInfo(acc Accumulator, contractID int32, withFormats bool, general rights.General, hasGeneral bool) *availability.PackageContractInfo {
	cups := acc.CupTokens().Clone()
	if len(cups) == 0 {
		cups = availability.DefaultCupTokens()
	}
	codes := acc.AssetBcp47Codes().Clone()
	if codes == nil {
		codes = availability.NewStringSet()
	}
	formats := availability.NewStringSet()
	if withFormats {
		formats = formats.Union(acc.VideoFormatDescriptors())
	}

	info := &availability.PackageContractInfo{
		Contract: availability.ContractInfo{
			ContractID:             contractID,
			CupTokens:              cups,
			AssetBcp47Codes:        codes,
			IsAvailableForDownload: acc.IsAvailableForDownload(),
			PrePromotionDays:       acc.PrePromoDays(),
			HasRollingEpisodes:     acc.HasRollingEpisodes(),
			IsDayAfterBroadcast:    acc.HasRollingEpisodes(),
		},
		Package: availability.PackageInfo{
			Formats:          formats,
			IsDefaultPackage: true,
		},
	}
	if hasGeneral && general.RuntimeSeconds != nil {
		info.Package.RuntimeSeconds = int32(*general.RuntimeSeconds)
	}
	return info
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package windows

import (
	"strings"

	"github.com/ManuGH/availwin/internal/rights"
	"golang.org/x/text/cases"
)

// foldLanguage case-folds a language tag. A Caser keeps state, so each call
// gets its own.
func foldLanguage(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// contractAvailability ORs the asset-type bits of every asset whose language
// matches locale.
func contractAvailability(locale string, assets []rights.Asset) int64 {
	want := foldLanguage(locale)
	var bits int64
	for _, a := range assets {
		if foldLanguage(a.Bcp47Code) == want {
			bits |= a.Type.Bit()
		}
	}
	return bits
}

// packageAvailability narrows the contract bits to what a package carries.
// Unresolved and default packages, and packages that list no assets, take
// the contract bits as they are. Zero means unavailable in the locale.
func packageAvailability(locale string, pkg *rights.Package, contractBits int64) int64 {
	if pkg == nil || pkg.IsDefault || len(pkg.Assets) == 0 {
		return contractBits
	}
	return contractBits & contractAvailability(locale, pkg.Assets)
}

type requirements struct {
	subs         bool
	dubs         bool
	localization bool
}

func containsFolded(list []string, want string) bool {
	for _, v := range list {
		if foldLanguage(v) == want {
			return true
		}
	}
	return false
}

// localeRequirements looks the locale up in the title's requirement lists.
func localeRequirements(locale string, flags *rights.Flags) requirements {
	if flags == nil {
		return requirements{}
	}
	want := foldLanguage(locale)
	return requirements{
		subs:         containsFolded(flags.SubsRequiredLanguages, want),
		dubs:         containsFolded(flags.DubsRequiredLanguages, want),
		localization: containsFolded(flags.LocalizationRequiredLanguages, want),
	}
}

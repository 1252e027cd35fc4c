// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package contractinfo builds the per-package contract records stored in an
// availability window.
package contractinfo

import (
	"sync"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/rights"
)

type packageKey struct {
	videoID   int64
	packageID int64
}

// Builder turns rights records into availability.PackageContractInfo values.
// Package conversions are cached for the current cycle; Reset drops them.
// A Builder is safe for concurrent use.
type Builder struct {
	mu       sync.Mutex
	packages map[packageKey]availability.PackageInfo
}

// NewBuilder returns a builder with an empty cache.
func NewBuilder() *Builder {
	return &Builder{packages: make(map[packageKey]availability.PackageInfo)}
}

// Reset clears the per-cycle cache.
func (b *Builder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.packages)
}

// CachedPackages reports how many package conversions are cached.
func (b *Builder) CachedPackages() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.packages)
}

func (b *Builder) packageInfo(videoID int64, pkg rights.Package) availability.PackageInfo {
	key := packageKey{videoID, pkg.ID}

	b.mu.Lock()
	defer b.mu.Unlock()
	info, ok := b.packages[key]
	if !ok {
		info = availability.PackageInfo{
			PackageID:        int32(pkg.ID),
			Formats:          availability.NewStringSet(pkg.Formats...),
			RuntimeSeconds:   pkg.RuntimeSeconds,
			IsDefaultPackage: pkg.IsDefault,
		}
		b.packages[key] = info
	}
	info.Formats = info.Formats.Clone()
	return info
}

// emptyPackage stands in for entries that carry no package data. It counts as
// a default package so the entry stays selectable when folding.
func emptyPackage(packageID int32) availability.PackageInfo {
	return availability.PackageInfo{
		PackageID:        packageID,
		Formats:          availability.NewStringSet(),
		IsDefaultPackage: true,
	}
}

func contractInfo(wc rights.WindowContract, contract *rights.Contract, primaryPackageID int32) availability.ContractInfo {
	codes := availability.NewStringSet()
	for _, a := range wc.Assets {
		codes.Add(a.Bcp47Code)
	}
	info := availability.ContractInfo{
		ContractID:             int32(wc.ContractID),
		PrimaryPackageID:       primaryPackageID,
		CupTokens:              CupTokens(contract),
		AssetBcp47Codes:        codes,
		IsAvailableForDownload: wc.Download,
	}
	if contract != nil {
		info.PrePromotionDays = contract.PrePromotionDays
		info.PostPromotionDays = contract.PostPromotionDays
		info.HasRollingEpisodes = contract.HasRollingEpisodes
		info.IsDayAfterBroadcast = contract.DayAfterBroadcast
	}
	return info
}

// CupToken returns the contract's cup token, or the default token when the
// contract is absent or has none.
func CupToken(contract *rights.Contract) string {
	if contract == nil || contract.CupToken == "" {
		return availability.DefaultCupToken
	}
	return contract.CupToken
}

// CupTokens returns the single-token list for a contract.
func CupTokens(contract *rights.Contract) availability.CupTokens {
	return availability.CupTokens{CupToken(contract)}
}

// WithPackage builds an entry from resolved package data.
func (b *Builder) WithPackage(videoID int64, pkg rights.Package, wc rights.WindowContract, contract *rights.Contract) *availability.PackageContractInfo {
	return &availability.PackageContractInfo{
		Contract: contractInfo(wc, contract, int32(pkg.ID)),
		Package:  b.packageInfo(videoID, pkg),
	}
}

// WithoutPackage builds an entry from the contract alone. packageID is the
// referenced package id, or 0 when the contract references none.
func (b *Builder) WithoutPackage(packageID int32, wc rights.WindowContract, contract *rights.Contract) *availability.PackageContractInfo {
	return &availability.PackageContractInfo{
		Contract: contractInfo(wc, contract, packageID),
		Package:  emptyPackage(packageID),
	}
}

// Filtered builds the placeholder entry for contract data that does not
// affect output: only the contract id is kept.
func (b *Builder) Filtered(contractID int32) *availability.PackageContractInfo {
	return &availability.PackageContractInfo{
		Contract: availability.ContractInfo{
			ContractID:      contractID,
			CupTokens:       availability.CupTokens{},
			AssetBcp47Codes: availability.NewStringSet(),
		},
		Package: emptyPackage(0),
	}
}

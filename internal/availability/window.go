package availability

// ContractInfo is the contract side of a per-package window entry.
type ContractInfo struct {
	ContractID             int32     `json:"contractId"`
	PrimaryPackageID       int32     `json:"primaryPackageId"`
	CupTokens              CupTokens `json:"cupTokens"`
	AssetBcp47Codes        StringSet `json:"assetBcp47Codes"`
	IsAvailableForDownload bool      `json:"isAvailableForDownload"`
	PrePromotionDays       int32     `json:"prePromotionDays"`
	PostPromotionDays      int32     `json:"postPromotionDays"`
	HasRollingEpisodes     bool      `json:"hasRollingEpisodes"`
	IsDayAfterBroadcast    bool      `json:"isDayAfterBroadcast"`
}

// PackageInfo is the package side of a per-package window entry.
type PackageInfo struct {
	PackageID        int32     `json:"packageId"`
	Formats          StringSet `json:"formats"`
	RuntimeSeconds   int32     `json:"runtimeSeconds"`
	IsDefaultPackage bool      `json:"isDefaultPackage"`
}

// PackageContractInfo pairs the contract and package data of one package in
// one window.
type PackageContractInfo struct {
	Contract ContractInfo `json:"videoContractInfo"`
	Package  PackageInfo  `json:"videoPackageInfo"`
}

// Clone returns a deep copy.
func (p *PackageContractInfo) Clone() *PackageContractInfo {
	if p == nil {
		return nil
	}
	c := *p
	c.Contract.CupTokens = p.Contract.CupTokens.Clone()
	c.Contract.AssetBcp47Codes = p.Contract.AssetBcp47Codes.Clone()
	c.Package.Formats = p.Package.Formats.Clone()
	return &c
}

// Window is one computed availability window.
type Window struct {
	StartDate            int64                               `json:"startDate"`
	EndDate              int64                               `json:"endDate"`
	OnHold               bool                                `json:"onHold"`
	BundledAssetsGroupID int32                               `json:"bundledAssetsGroupId"`
	InfosByPackage       map[PackageKey]*PackageContractInfo `json:"windowInfosByPackageId"`
}

// NewWindow returns a window with an empty entry map.
func NewWindow(start, end int64, onHold bool) *Window {
	return &Window{
		StartDate:      start,
		EndDate:        end,
		OnHold:         onHold,
		InfosByPackage: make(map[PackageKey]*PackageContractInfo),
	}
}

// DateWindow is a plain date range in epoch milliseconds.
type DateWindow struct {
	StartDate int64 `json:"startDate"`
	EndDate   int64 `json:"endDate"`
}

// Contains reports whether t falls strictly inside the window.
func (d DateWindow) Contains(t int64) bool {
	return d.StartDate < t && t < d.EndDate
}

// Overlaps reports whether d and other share any instant.
func (d DateWindow) Overlaps(other DateWindow) bool {
	return d.StartDate < other.EndDate && other.StartDate < d.EndDate
}

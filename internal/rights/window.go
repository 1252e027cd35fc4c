package rights

// Window is a raw rights window for one video in one country.
type Window struct {
	StartDate int64            `yaml:"startDate" json:"startDate"`
	EndDate   int64            `yaml:"endDate" json:"endDate"`
	OnHold    bool             `yaml:"onHold,omitempty" json:"onHold,omitempty"`
	Contracts []WindowContract `yaml:"contracts,omitempty" json:"contracts,omitempty"`
}

// ContractIDs returns the ids of the window's contracts in input order.
func (w Window) ContractIDs() []int64 {
	ids := make([]int64, 0, len(w.Contracts))
	for _, c := range w.Contracts {
		ids = append(ids, c.ContractID)
	}
	return ids
}

// WindowContract references a contract from inside a rights window.
type WindowContract struct {
	ContractID int64 `yaml:"contractId" json:"contractId"`
	Download   bool  `yaml:"download,omitempty" json:"download,omitempty"`
	// PackageID is the legacy single-package reference some feeds still carry.
	PackageID *int64            `yaml:"packageId,omitempty" json:"packageId,omitempty"`
	Assets    []Asset           `yaml:"assets,omitempty" json:"assets,omitempty"`
	Packages  []ContractPackage `yaml:"packages,omitempty" json:"packages,omitempty"`
}

// HasPackagesOrAssets reports whether the contract carries any package or
// asset association at all.
func (c WindowContract) HasPackagesOrAssets() bool {
	return c.PackageID != nil || len(c.Assets) > 0 || len(c.Packages) > 0
}

// ContractPackage references a package granted by a window contract.
type ContractPackage struct {
	PackageID int64 `yaml:"packageId" json:"packageId"`
}

// Rights is the set of windows for a video in a country.
type Rights struct {
	Windows []Window `yaml:"windows,omitempty" json:"windows,omitempty"`
}

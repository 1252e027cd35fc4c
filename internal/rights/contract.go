package rights

// Contract carries the attributes of a licensing contract for a video in a
// country.
type Contract struct {
	ContractID         int64  `yaml:"contractId" json:"contractId"`
	CupToken           string `yaml:"cupToken,omitempty" json:"cupToken,omitempty"`
	PrePromotionDays   int32  `yaml:"prePromotionDays,omitempty" json:"prePromotionDays,omitempty"`
	PostPromotionDays  int32  `yaml:"postPromotionDays,omitempty" json:"postPromotionDays,omitempty"`
	DayAfterBroadcast  bool   `yaml:"dayAfterBroadcast,omitempty" json:"dayAfterBroadcast,omitempty"`
	HasRollingEpisodes bool   `yaml:"hasRollingEpisodes,omitempty" json:"hasRollingEpisodes,omitempty"`
}

// NeedsWindowData reports whether the contract keeps window data relevant
// before go-live.
func (c Contract) NeedsWindowData() bool {
	return c.DayAfterBroadcast || c.PrePromotionDays > 0
}

// Package carries the attributes of a deliverable package.
type Package struct {
	ID             int64    `yaml:"id" json:"id"`
	IsDefault      bool     `yaml:"isDefault,omitempty" json:"isDefault,omitempty"`
	Formats        []string `yaml:"formats,omitempty" json:"formats,omitempty"`
	RuntimeSeconds int32    `yaml:"runtimeSeconds,omitempty" json:"runtimeSeconds,omitempty"`
	// Assets lists the language assets physically present in the package.
	Assets []Asset `yaml:"assets,omitempty" json:"assets,omitempty"`
}

// General is the country-independent metadata of a video.
type General struct {
	VideoID int64 `yaml:"videoId" json:"videoId"`
	// RuntimeSeconds is nil when the feed has no runtime for the video.
	RuntimeSeconds *int64 `yaml:"runtimeSeconds,omitempty" json:"runtimeSeconds,omitempty"`
}

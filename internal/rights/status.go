package rights

// Flags are the per video/country status flags.
type Flags struct {
	GoLive                        bool     `yaml:"goLive,omitempty" json:"goLive,omitempty"`
	LanguageOverride              bool     `yaml:"languageOverride,omitempty" json:"languageOverride,omitempty"`
	SubsRequiredLanguages         []string `yaml:"subsRequiredLanguages,omitempty" json:"subsRequiredLanguages,omitempty"`
	DubsRequiredLanguages         []string `yaml:"dubsRequiredLanguages,omitempty" json:"dubsRequiredLanguages,omitempty"`
	LocalizationRequiredLanguages []string `yaml:"localizationRequiredLanguages,omitempty" json:"localizationRequiredLanguages,omitempty"`
}

// Status is the rights status of one video in one country.
type Status struct {
	VideoID int64  `yaml:"videoId" json:"videoId"`
	Country string `yaml:"country" json:"country"`
	Rights  Rights `yaml:"rights" json:"rights"`
	Flags   *Flags `yaml:"flags,omitempty" json:"flags,omitempty"`
}

// IsGoLive reports whether the status flags mark the title live.
func IsGoLive(s *Status) bool {
	return s != nil && s.Flags != nil && s.Flags.GoLive
}

// IsLanguageOverride reports whether the status flags allow falling back to
// single-catalog windows when a locale yields none.
func IsLanguageOverride(s *Status) bool {
	return s != nil && s.Flags != nil && s.Flags.LanguageOverride
}

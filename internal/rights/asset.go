package rights

import (
	"fmt"
	"strings"
)

// AssetType classifies a contract asset.
type AssetType int

const (
	AssetOther AssetType = iota
	AssetAudio
	AssetSubtitles
)

// Availability bits combined into locale availability masks.
const (
	BitAudio     int64 = 1 << 0
	BitSubtitles int64 = 1 << 1
)

// Bit returns the availability bit for the asset type, 0 for AssetOther.
func (t AssetType) Bit() int64 {
	switch t {
	case AssetAudio:
		return BitAudio
	case AssetSubtitles:
		return BitSubtitles
	default:
		return 0
	}
}

func (t AssetType) String() string {
	switch t {
	case AssetAudio:
		return "audio"
	case AssetSubtitles:
		return "subtitles"
	default:
		return "other"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t AssetType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *AssetType) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "audio", "primary_audio":
		*t = AssetAudio
	case "subtitles", "subtitle", "text", "timed_text":
		*t = AssetSubtitles
	case "other", "":
		*t = AssetOther
	default:
		return fmt.Errorf("unknown asset type %q", string(b))
	}
	return nil
}

// Asset is one language asset a contract grants rights to.
type Asset struct {
	Bcp47Code string    `yaml:"bcp47Code" json:"bcp47Code"`
	Type      AssetType `yaml:"type" json:"type"`
}

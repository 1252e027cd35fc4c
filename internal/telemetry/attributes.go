package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by availwin spans.
const (
	VideoIDKey  = "availwin.video_id"
	CountryKey  = "availwin.country"
	LocaleKey   = "availwin.locale"
	LiveKey     = "availwin.live"
	PathKey     = "availwin.path"
	LevelKey    = "availwin.level"
	WindowsKey  = "availwin.windows"
	ShowIDKey   = "availwin.show_id"
	EpisodesKey = "availwin.episodes"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// ComputeAttributes describes one window computation.
func ComputeAttributes(videoID int64, country, locale string, live bool) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int64(VideoIDKey, videoID),
		attribute.String(CountryKey, country),
		attribute.Bool(LiveKey, live),
	}
	if locale != "" {
		attrs = append(attrs, attribute.String(LocaleKey, locale))
	}
	return attrs
}

// ResultAttributes describes the outcome of a computation.
func ResultAttributes(path string, windows int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(PathKey, path),
		attribute.Int(WindowsKey, windows),
	}
}

// TitleAttributes describes one show rollup.
func TitleAttributes(showID int64, country string, episodes int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64(ShowIDKey, showID),
		attribute.String(CountryKey, country),
		attribute.Int(EpisodesKey, episodes),
	}
}

// ErrorAttributes marks a span as failed with a coarse error class.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}

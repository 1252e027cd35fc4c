package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldCycleID   = "cycle_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldTag       = "tag"

	// Title fields
	FieldVideoID   = "video_id"
	FieldCountry   = "country"
	FieldLocale    = "locale"
	FieldContract  = "contract_id"
	FieldPackageID = "package_id"
	FieldPath      = "path"
)

// Tag classifies engine log lines so downstream log search can group them.
type Tag string

const (
	TagPrePromotion              Tag = "PrePromotion"
	TagLocaleMerching            Tag = "LocaleMerching"
	TagLocaleMerchingMissingSubs Tag = "LocaleMerchingMissingSubs"
	TagLocaleMerchingMissingDubs Tag = "LocaleMerchingMissingDubs"
	TagInteractivePackage        Tag = "InteractivePackage"
	TagMissingReference          Tag = "MissingReference"
)

// Tags renders one or more tags as a string slice for zerolog's Strs.
func Tags(tags ...Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

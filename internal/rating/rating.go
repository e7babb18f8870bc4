// Package rating converts between the UI rating scales and the single 0-10
// scale ratings are stored on.
//
// Conversions are plain arithmetic. Out-of-domain input is passed through
// unclamped; validating UI input is the caller's job.
package rating

import (
	"strconv"

	"github.com/calvinalkan/streamview/internal/entry"
)

const starsFactor = 2

// ToInternal converts a UI value on scale to the internal 0-10 scale.
func ToInternal(ui float64, scale entry.RatingScale) float64 {
	if scale == entry.ScaleStars {
		return ui * starsFactor
	}

	return ui
}

// FromInternal converts an internal value back to scale's UI units.
func FromInternal(internal float64, scale entry.RatingScale) float64 {
	if scale == entry.ScaleStars {
		return internal / starsFactor
	}

	return internal
}

// Format renders an internal value in scale's UI units for labels.
// Stars get a trailing star, decimal keeps one fractional digit when present.
func Format(internal float64, scale entry.RatingScale) string {
	ui := FromInternal(internal, scale)

	switch scale {
	case entry.ScaleStars:
		return strconv.FormatFloat(ui, 'f', -1, 64) + "★"
	case entry.ScaleDecimal:
		return strconv.FormatFloat(ui, 'f', -1, 64)
	default:
		return strconv.FormatFloat(ui, 'f', 0, 64)
	}
}

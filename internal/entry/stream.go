package entry

import "fmt"

// RatingScale is the UI scale a stream rates its entries on.
type RatingScale string

// Rating scales.
const (
	ScaleStars        RatingScale = "stars"         // 1-5 whole stars
	ScaleDecimalWhole RatingScale = "decimal_whole" // 0-10 whole points
	ScaleDecimal      RatingScale = "decimal"       // 0-10 in tenths
)

// Valid reports whether s is a known scale.
func (s RatingScale) Valid() bool {
	return s == ScaleStars || s == ScaleDecimalWhole || s == ScaleDecimal
}

// Min returns the lowest UI value on the scale.
func (s RatingScale) Min() float64 {
	if s == ScaleStars {
		return 1
	}

	return 0
}

// Max returns the highest UI value on the scale.
func (s RatingScale) Max() float64 {
	if s == ScaleStars {
		return 5
	}

	return 10
}

// ParseRatingScale validates a scale name. Empty means stars.
func ParseRatingScale(s string) (RatingScale, error) {
	if s == "" {
		return ScaleStars, nil
	}

	scale := RatingScale(s)
	if !scale.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidRatingScale, s)
	}

	return scale, nil
}

// Stream is a user-defined category of entries.
type Stream struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Statuses    []Status    `json:"statuses,omitempty"` // Statuses is empty when all statuses are allowed.
	Types       []string    `json:"types,omitempty"`
	RatingScale RatingScale `json:"rating_scale,omitempty"`
}

// Scale returns the stream's rating scale, defaulting to stars.
func (s *Stream) Scale() RatingScale {
	if s.RatingScale == "" {
		return ScaleStars
	}

	return s.RatingScale
}

// AllowedStatuses returns the statuses valid in the stream.
func (s *Stream) AllowedStatuses() []Status {
	if len(s.Statuses) == 0 {
		return AllStatuses()
	}

	return s.Statuses
}

// StreamIndex is a read-only lookup over a stream snapshot.
type StreamIndex struct {
	byID map[string]*Stream
}

// NewStreamIndex indexes streams by ID. Later duplicates win.
func NewStreamIndex(streams []Stream) StreamIndex {
	idx := StreamIndex{byID: make(map[string]*Stream, len(streams))}

	for i := range streams {
		idx.byID[streams[i].ID] = &streams[i]
	}

	return idx
}

// Get returns the stream with id.
func (x StreamIndex) Get(id string) (*Stream, bool) {
	s, ok := x.byID[id]

	return s, ok
}

// Name returns the name of stream id, or "" when unknown.
func (x StreamIndex) Name(id string) string {
	if s, ok := x.byID[id]; ok {
		return s.Name
	}

	return ""
}

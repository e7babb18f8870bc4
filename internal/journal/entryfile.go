package journal

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/streamview/internal/entry"
)

// Frontmatter delimiter.
const frontmatterDelimiter = "---"

// header is the YAML frontmatter of an entry file. Day-granularity dates are
// kept as text so they round-trip without a time zone.
type header struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title,omitempty"`
	Status     string    `yaml:"status,omitempty"`
	Priority   int       `yaml:"priority,omitempty"`
	Type       string    `yaml:"type,omitempty"`
	Rating     float64   `yaml:"rating,omitempty"`
	DueDate    string    `yaml:"due_date,omitempty"`
	EntryDate  string    `yaml:"entry_date,omitempty"`
	Created    time.Time `yaml:"created"`
	Archived   bool      `yaml:"archived,omitempty"`
	Pinned     bool      `yaml:"pinned,omitempty"`
	Stream     string    `yaml:"stream,omitempty"`
	PhotoCount *int      `yaml:"photo_count,omitempty"`
}

// encodeEntry renders e as an entry file: frontmatter, then the content.
func encodeEntry(e *entry.Entry) ([]byte, error) {
	h := header{
		ID:         e.ID,
		Title:      e.Title,
		Status:     string(e.Status),
		Priority:   int(e.Priority),
		Type:       e.Type,
		Rating:     e.Rating,
		DueDate:    formatDate(e.DueDate),
		EntryDate:  formatDate(e.EntryDate),
		Created:    e.CreatedAt.UTC(),
		Archived:   e.IsArchived,
		Pinned:     e.IsPinned,
		Stream:     e.StreamID,
		PhotoCount: e.PhotoCount,
	}

	var buf bytes.Buffer

	buf.WriteString(frontmatterDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	err := enc.Encode(&h)
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	_ = enc.Close()

	buf.WriteString(frontmatterDelimiter + "\n")

	// The body always ends in exactly one extra newline, which decoding strips.
	if e.Content != "" {
		buf.WriteString(e.Content)
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

// decodeEntry parses an entry file. Dates without a time are read in loc.
func decodeEntry(data []byte, loc *time.Location) (entry.Entry, error) {
	front, body, err := splitFrontmatter(data)
	if err != nil {
		return entry.Entry{}, err
	}

	var h header

	unmarshalErr := yaml.Unmarshal(front, &h)
	if unmarshalErr != nil {
		return entry.Entry{}, fmt.Errorf("%w: %w", ErrBadFrontmatter, unmarshalErr)
	}

	e := entry.Entry{
		ID:         h.ID,
		Title:      h.Title,
		Content:    string(bytes.TrimSuffix(body, []byte("\n"))),
		Status:     entry.StatusNone,
		Priority:   entry.Priority(h.Priority),
		Type:       h.Type,
		Rating:     h.Rating,
		CreatedAt:  h.Created,
		IsArchived: h.Archived,
		IsPinned:   h.Pinned,
		StreamID:   h.Stream,
		PhotoCount: h.PhotoCount,
	}

	if h.Status != "" {
		e.Status, err = entry.ParseStatus(h.Status)
		if err != nil {
			return entry.Entry{}, err
		}
	}

	if !e.Priority.Valid() {
		return entry.Entry{}, fmt.Errorf("%w: %d (must be 0-4)", entry.ErrInvalidPriority, h.Priority)
	}

	if h.Rating < 0 || h.Rating > 10 {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrInvalidRating, h.Rating)
	}

	e.DueDate, err = parseOptionalDate(h.DueDate, loc)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("due_date: %w", err)
	}

	e.EntryDate, err = parseOptionalDate(h.EntryDate, loc)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("entry_date: %w", err)
	}

	return e, nil
}

// splitFrontmatter separates the YAML block from the body. The file must open
// with a delimiter line.
func splitFrontmatter(data []byte) ([]byte, []byte, error) {
	open := []byte(frontmatterDelimiter + "\n")
	if !bytes.HasPrefix(data, open) {
		return nil, nil, ErrNoFrontmatter
	}

	rest := data[len(open):]

	end := bytes.Index(rest, []byte("\n"+frontmatterDelimiter+"\n"))
	if end < 0 {
		// Frontmatter closed at end of file without a body.
		if bytes.HasSuffix(rest, []byte("\n"+frontmatterDelimiter)) {
			return rest[:len(rest)-len(frontmatterDelimiter)-1], nil, nil
		}

		return nil, nil, fmt.Errorf("%w: unterminated", ErrNoFrontmatter)
	}

	return rest[:end+1], rest[end+len(frontmatterDelimiter)+2:], nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(entry.DateLayout)
}

func parseOptionalDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := entry.ParseDate(s, loc)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

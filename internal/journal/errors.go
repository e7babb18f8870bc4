package journal

import "errors"

// Journal errors.
var (
	ErrJournalDirEmpty   = errors.New("journal dir cannot be empty")
	ErrLockTimeout       = errors.New("lock timeout")
	ErrLockFileOpen      = errors.New("failed to open lock file")
	ErrNoFrontmatter     = errors.New("missing frontmatter")
	ErrBadFrontmatter    = errors.New("invalid frontmatter")
	ErrIDMismatch        = errors.New("id does not match file name")
	ErrInvalidRating     = errors.New("rating must be between 0 and 10")
	ErrTitleRequired     = errors.New("title is required")
	ErrUnknownStream     = errors.New("unknown stream")
	ErrInvalidType       = errors.New("type not allowed in stream")
	ErrInvalidStreamFile = errors.New("invalid streams file")
	ErrInvalidStream     = errors.New("invalid stream")
	ErrInvalidCountsFile = errors.New("invalid attachments file")
	ErrInvalidViewsFile  = errors.New("invalid views file")
	ErrViewNameRequired  = errors.New("view name is required")
	ErrViewNotFound      = errors.New("view not found")
	ErrIDGeneration      = errors.New("cannot generate entry id")
)

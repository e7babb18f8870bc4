// Package journal stores entries, streams and saved views on disk.
//
// Layout of a journal directory:
//
//	entries/<id>.md     one entry per file, YAML frontmatter then HTML content
//	streams.json        JSONC array of streams
//	attachments.json    JSONC object of entry id to attachment count (optional)
//	views.json          saved filters by view name
//	.locks/journal.lock flock taken shared by readers and exclusive by writers
//
// Reads never fail on a single bad file. Problems are collected as
// [LoadIssue]s next to the data that did load.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/view"
)

// File and directory names inside a journal.
const (
	EntriesDirName      = "entries"
	StreamsFileName     = "streams.json"
	AttachmentsFileName = "attachments.json"
	ViewsFileName       = "views.json"
	entryExt            = ".md"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// Options configures a [Journal].
type Options struct {
	// Location interprets day-granularity dates. Nil means time.Local.
	Location *time.Location

	// LockTimeout bounds waiting for the journal lock. Zero means
	// [DefaultLockTimeout].
	LockTimeout time.Duration

	// Now stamps created entries. Nil means time.Now.
	Now func() time.Time
}

// Journal is a journal directory.
type Journal struct {
	dir  string
	opts Options
}

// Open returns the journal rooted at dir. The directory is not required to
// exist until the first write.
func Open(dir string, opts Options) (*Journal, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrJournalDirEmpty
	}

	if opts.Location == nil {
		opts.Location = time.Local
	}

	if opts.LockTimeout == 0 {
		opts.LockTimeout = DefaultLockTimeout
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Journal{dir: dir, opts: opts}, nil
}

// Dir returns the journal root.
func (j *Journal) Dir() string {
	return j.dir
}

// LoadIssue is a file that could not be read, fully or in part.
type LoadIssue struct {
	Path string
	Err  error
}

func (i LoadIssue) Error() string {
	return fmt.Sprintf("%s: %v", i.Path, i.Err)
}

func (i LoadIssue) Unwrap() error {
	return i.Err
}

// Load reads the whole journal under a shared lock. A missing journal loads
// as empty.
func (j *Journal) Load(ctx context.Context) (view.Snapshot, []LoadIssue, error) {
	var (
		snap   view.Snapshot
		issues []LoadIssue
	)

	if _, err := os.Stat(j.dir); errors.Is(err, fs.ErrNotExist) {
		return view.Snapshot{Entries: []entry.Entry{}}, nil, nil
	}

	err := j.withLock(ctx, lockShared, func() error {
		var err error

		snap.Streams, issues = j.readStreams(issues)
		snap.AttachmentCounts, issues = j.readAttachmentCounts(issues)

		snap.Entries, issues, err = j.readEntries(ctx, issues)

		return err
	})
	if err != nil {
		return view.Snapshot{}, nil, err
	}

	return snap, issues, nil
}

// Streams reads the stream definitions. Invalid streams are reported and
// skipped.
func (j *Journal) Streams(ctx context.Context) ([]entry.Stream, []LoadIssue, error) {
	var (
		streams []entry.Stream
		issues  []LoadIssue
	)

	err := j.withLock(ctx, lockShared, func() error {
		streams, issues = j.readStreams(nil)

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return streams, issues, nil
}

func (j *Journal) readEntries(ctx context.Context, issues []LoadIssue) ([]entry.Entry, []LoadIssue, error) {
	entriesDir := filepath.Join(j.dir, EntriesDirName)

	dirEntries, err := os.ReadDir(entriesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entry.Entry{}, issues, nil
		}

		return nil, issues, fmt.Errorf("reading entries dir: %w", err)
	}

	entries := make([]entry.Entry, 0, len(dirEntries))

	for _, de := range dirEntries {
		if ctx.Err() != nil {
			return nil, issues, fmt.Errorf("loading entries: %w", ctx.Err())
		}

		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, entryExt) || strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(entriesDir, name)

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			issues = append(issues, LoadIssue{Path: path, Err: readErr})

			continue
		}

		e, decodeErr := decodeEntry(data, j.opts.Location)
		if decodeErr != nil {
			issues = append(issues, LoadIssue{Path: path, Err: decodeErr})

			continue
		}

		if want := strings.TrimSuffix(name, entryExt); e.ID != want {
			issues = append(issues, LoadIssue{Path: path, Err: fmt.Errorf("%w: %q", ErrIDMismatch, e.ID)})

			continue
		}

		entries = append(entries, e)
	}

	return entries, issues, nil
}

func (j *Journal) readStreams(issues []LoadIssue) ([]entry.Stream, []LoadIssue) {
	path := filepath.Join(j.dir, StreamsFileName)

	var raw []entry.Stream

	found, err := readJSONC(path, &raw)
	if err != nil {
		return []entry.Stream{}, append(issues, LoadIssue{Path: path, Err: fmt.Errorf("%w: %w", ErrInvalidStreamFile, err)})
	}

	if !found {
		return []entry.Stream{}, issues
	}

	streams := make([]entry.Stream, 0, len(raw))

	for i := range raw {
		validErr := validateStream(&raw[i])
		if validErr != nil {
			issues = append(issues, LoadIssue{Path: path, Err: fmt.Errorf("stream %d: %w", i, validErr)})

			continue
		}

		streams = append(streams, raw[i])
	}

	return streams, issues
}

func validateStream(s *entry.Stream) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidStream)
	}

	if s.RatingScale != "" && !s.RatingScale.Valid() {
		return fmt.Errorf("%w %s: %w: %q", ErrInvalidStream, s.ID, entry.ErrInvalidRatingScale, s.RatingScale)
	}

	for _, st := range s.Statuses {
		if !st.Valid() {
			return fmt.Errorf("%w %s: %w: %q", ErrInvalidStream, s.ID, entry.ErrInvalidStatus, st)
		}
	}

	return nil
}

func (j *Journal) readAttachmentCounts(issues []LoadIssue) (map[string]int, []LoadIssue) {
	path := filepath.Join(j.dir, AttachmentsFileName)

	var counts map[string]int

	found, err := readJSONC(path, &counts)
	if err != nil {
		return nil, append(issues, LoadIssue{Path: path, Err: fmt.Errorf("%w: %w", ErrInvalidCountsFile, err)})
	}

	if !found {
		return nil, issues
	}

	return counts, issues
}

// NewEntry is the input of [Journal.CreateEntry].
type NewEntry struct {
	Title     string
	Content   string
	Status    entry.Status // empty means todo
	Priority  entry.Priority
	Type      string
	Rating    float64 // internal 0-10 scale
	DueDate   *time.Time
	EntryDate *time.Time
	StreamID  string
	Pinned    bool
}

// CreateEntry validates in, assigns a UUIDv7 id and writes the entry file.
func (j *Journal) CreateEntry(ctx context.Context, in NewEntry) (entry.Entry, error) {
	if strings.TrimSpace(in.Title) == "" {
		return entry.Entry{}, ErrTitleRequired
	}

	if in.Status == "" {
		in.Status = entry.StatusTodo
	}

	if !in.Status.Valid() {
		return entry.Entry{}, fmt.Errorf("%w: %s", entry.ErrInvalidStatus, in.Status)
	}

	if !in.Priority.Valid() {
		return entry.Entry{}, fmt.Errorf("%w: %d (must be 0-4)", entry.ErrInvalidPriority, in.Priority)
	}

	if in.Rating < 0 || in.Rating > 10 {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrInvalidRating, in.Rating)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %w", ErrIDGeneration, err)
	}

	e := entry.Entry{
		ID:        id.String(),
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Status:    in.Status,
		Priority:  in.Priority,
		Type:      strings.TrimSpace(in.Type),
		Rating:    in.Rating,
		DueDate:   in.DueDate,
		EntryDate: in.EntryDate,
		CreatedAt: j.opts.Now().UTC().Truncate(time.Second),
		IsPinned:  in.Pinned,
		StreamID:  in.StreamID,
	}

	data, err := encodeEntry(&e)
	if err != nil {
		return entry.Entry{}, err
	}

	err = j.withLock(ctx, lockExclusive, func() error {
		if e.StreamID != "" {
			streams, _ := j.readStreams(nil)

			s, ok := entry.NewStreamIndex(streams).Get(e.StreamID)
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownStream, e.StreamID)
			}

			if e.Type != "" && len(s.Types) > 0 && !slices.Contains(s.Types, e.Type) {
				return fmt.Errorf("%w: %q (stream %s allows %s)", ErrInvalidType, e.Type, s.ID, strings.Join(s.Types, ", "))
			}
		}

		entriesDir := filepath.Join(j.dir, EntriesDirName)

		mkdirErr := os.MkdirAll(entriesDir, dirPerms)
		if mkdirErr != nil {
			return fmt.Errorf("creating entries dir: %w", mkdirErr)
		}

		return writeFile(filepath.Join(entriesDir, e.ID+entryExt), data)
	})
	if err != nil {
		return entry.Entry{}, err
	}

	return e, nil
}

// readJSONC decodes a JSONC file into v. A missing file is not an error and
// reports found=false.
func readJSONC(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return true, fmt.Errorf("invalid JSONC: %w", err)
	}

	err = json.Unmarshal(standardized, v)
	if err != nil {
		return true, fmt.Errorf("invalid JSON: %w", err)
	}

	return true, nil
}

// writeFile replaces path atomically. atomic.WriteFile keeps the mode of an
// existing file but creates new ones with default permissions.
func writeFile(path string, data []byte) error {
	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	err := atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	if isNew {
		_ = os.Chmod(path, filePerms)
	}

	return nil
}

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/calvinalkan/streamview/internal/filter"
)

// savedViews is the content of views.json.
type savedViews map[string]filter.StreamViewFilter

func (j *Journal) viewsPath() string {
	return filepath.Join(j.dir, ViewsFileName)
}

func (j *Journal) readViews() (savedViews, error) {
	views := savedViews{}

	_, err := readJSONC(j.viewsPath(), &views)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidViewsFile, err)
	}

	// A literal null decodes to a nil map.
	if views == nil {
		views = savedViews{}
	}

	return views, nil
}

func (j *Journal) writeViews(views savedViews) error {
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding views: %w", err)
	}

	return writeFile(j.viewsPath(), append(data, '\n'))
}

// SaveView stores f under name, replacing any previous filter of that name.
// A view named after a stream id, "all" or "inbox" is that scope's default.
func (j *Journal) SaveView(ctx context.Context, name string, f filter.StreamViewFilter) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrViewNameRequired
	}

	return j.withLock(ctx, lockExclusive, func() error {
		views, err := j.readViews()
		if err != nil {
			return err
		}

		views[name] = f

		return j.writeViews(views)
	})
}

// LoadView returns the filter saved under name.
func (j *Journal) LoadView(ctx context.Context, name string) (filter.StreamViewFilter, error) {
	var f filter.StreamViewFilter

	name = strings.TrimSpace(name)

	err := j.withLock(ctx, lockShared, func() error {
		views, err := j.readViews()
		if err != nil {
			return err
		}

		saved, ok := views[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrViewNotFound, name)
		}

		f = saved

		return nil
	})

	return f, err
}

// ListViews returns the saved view names in sorted order.
func (j *Journal) ListViews(ctx context.Context) ([]string, error) {
	var names []string

	err := j.withLock(ctx, lockShared, func() error {
		views, err := j.readViews()
		if err != nil {
			return err
		}

		names = make([]string, 0, len(views))
		for name := range views {
			names = append(names, name)
		}

		slices.Sort(names)

		return nil
	})

	return names, err
}

// DeleteView removes the filter saved under name.
func (j *Journal) DeleteView(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	return j.withLock(ctx, lockExclusive, func() error {
		views, err := j.readViews()
		if err != nil {
			return err
		}

		if _, ok := views[name]; !ok {
			return fmt.Errorf("%w: %s", ErrViewNotFound, name)
		}

		delete(views, name)

		return j.writeViews(views)
	})
}

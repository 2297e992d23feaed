package race

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/lucasjlepore/fit-zones/logger"
	"github.com/lucasjlepore/fit-zones/metrics"
)

// Catalog is the loaded set of events from one dataset directory. It is
// built once and shared; Reload is the only way to observe on-disk changes.
type Catalog struct {
	fsys fs.FS
	log  logger.Logger

	mu     sync.RWMutex
	events map[string]*Event
}

// CatalogOption customises a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the catalog logger.
func WithLogger(l logger.Logger) CatalogOption {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCatalog loads every results file in the root of fsys.
func NewCatalog(ctx context.Context, fsys fs.FS, opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{fsys: fsys, log: logger.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload rereads the dataset and swaps it in atomically. On error the
// previous contents stay in place.
func (c *Catalog) Reload(ctx context.Context) error {
	events, skipped, err := loadEvents(ctx, c.fsys, c.log)
	if err != nil {
		return err
	}

	categories := 0
	for _, e := range events {
		categories += len(e.categories)
	}

	c.mu.Lock()
	c.events = events
	c.mu.Unlock()

	metrics.RecordCatalogLoad(len(events), categories, skipped)
	c.log.Info(ctx, "race catalog loaded",
		logger.Int("events", len(events)),
		logger.Int("categories", categories),
		logger.Int("skipped", skipped),
	)
	return nil
}

// Events lists the events in reverse label order.
func (c *Catalog) Events() []EventInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	labels := make([]string, 0, len(c.events))
	for label := range c.events {
		labels = append(labels, label)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(labels)))

	out := make([]EventInfo, 0, len(labels))
	for _, label := range labels {
		out = append(out, c.events[label].info())
	}
	return out
}

// Len returns the number of events.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

// Event returns the event with the given label.
func (c *Catalog) Event(label string) (*Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.events[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEventNotFound, label)
	}
	return e, nil
}

func loadEvents(ctx context.Context, fsys fs.FS, log logger.Logger) (map[string]*Event, int, error) {
	names, err := fs.Glob(fsys, resultFileGlob)
	if err != nil {
		return nil, 0, fmt.Errorf("list results files: %w", err)
	}

	type tables struct {
		key        FileKey
		categories map[string][]Result
	}
	byLabel := make(map[string]*tables)
	skipped := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		key, ok := ParseFileName(name)
		if !ok {
			if !strings.HasSuffix(name, doubleProcessedSuffix) {
				skipped++
				log.Debug(ctx, "skipping results file", logger.String("file", name))
			}
			continue
		}
		rows, err := readResults(fsys, name, key.Category)
		if err != nil {
			return nil, 0, err
		}
		label := key.Label()
		t, exists := byLabel[label]
		if !exists {
			t = &tables{key: key, categories: make(map[string][]Result)}
			byLabel[label] = t
		}
		t.categories[key.Category] = rows
	}

	events := make(map[string]*Event, len(byLabel))
	for label, t := range byLabel {
		events[label] = &Event{Name: t.key.Event, Date: t.key.Date, categories: t.categories}
	}
	return events, skipped, nil
}

func readResults(fsys fs.FS, name, category string) ([]Result, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	rows, err := ParseResults(f, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rows, nil
}

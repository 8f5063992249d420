package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a question catalog.
type catalogFile struct {
	Questions []*Question `yaml:"questions"`
}

type cacheEntry struct {
	modTime time.Time
	value   interface{}
}

// Loader reads catalogs and tag schemas from YAML files, caching parsed
// results by modification time so repeated loads inside one process are
// cheap. The cache is per-Loader; there is no package-level registry.
type Loader struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewLoader() *Loader {
	return &Loader{cache: make(map[string]cacheEntry)}
}

// LoadCatalog reads and validates a question catalog.
func (l *Loader) LoadCatalog(path string) ([]*Question, error) {
	v, err := l.load(path, func(data []byte) (interface{}, error) {
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		if err := validateCatalog(file.Questions); err != nil {
			return nil, err
		}
		return file.Questions, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Question), nil
}

// LoadTagSchema reads a tag schema.
func (l *Loader) LoadTagSchema(path string) (*TagSchema, error) {
	v, err := l.load(path, func(data []byte) (interface{}, error) {
		var schema TagSchema
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parse tag schema: %w", err)
		}
		return &schema, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TagSchema), nil
}

func (l *Loader) load(path string, parse func([]byte) (interface{}, error)) (interface{}, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	l.mu.Lock()
	if entry, ok := l.cache[path]; ok && entry.modTime.Equal(info.ModTime()) {
		l.mu.Unlock()
		return entry.value, nil
	}
	l.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	value, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.mu.Lock()
	l.cache[path] = cacheEntry{modTime: info.ModTime(), value: value}
	l.mu.Unlock()
	return value, nil
}

// Invalidate drops any cached parse for the path.
func (l *Loader) Invalidate(path string) {
	l.mu.Lock()
	delete(l.cache, path)
	l.mu.Unlock()
}

func validateCatalog(questions []*Question) error {
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q == nil || q.ID == "" {
			return fmt.Errorf("catalog entry %d has no id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// Bundle is a fully loaded catalog plus its tag schema.
type Bundle struct {
	Questions []*Question
	Lookup    Lookup
	Schema    *TagSchema
}

// LoadBundle loads the catalog and tag schema concurrently. The schema
// path may be empty, in which case the bundle carries a nil schema and
// the engine falls back to its base-tier defaults.
func (l *Loader) LoadBundle(ctx context.Context, catalogPath, schemaPath string) (*Bundle, error) {
	bundle := &Bundle{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		questions, err := l.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}
		bundle.Questions = questions
		return nil
	})
	if schemaPath != "" {
		g.Go(func() error {
			schema, err := l.LoadTagSchema(schemaPath)
			if err != nil {
				return err
			}
			bundle.Schema = schema
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	bundle.Lookup = NewLookup(bundle.Questions)
	return bundle, nil
}

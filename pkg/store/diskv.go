package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/liftlog/pkg/lift"
)

// Persistence is the store contract consumed by the editor, CLI, TUI, and
// MCP surfaces. Reads degrade to empty results instead of failing: all data
// is also held in memory for the session, so a broken disk never blocks
// editing.
type Persistence interface {
	// All returns every stored lift keyed by ID. Never fails; unreadable
	// records are skipped with a line on stderr.
	All(ctx context.Context) map[string]lift.Lift

	// Get returns the lift with the given ID. When no record matches, it
	// falls back to scanning for a lift whose date equals the identifier,
	// supporting legacy lookups where the date used to be the key.
	Get(ctx context.Context, id string) (lift.Lift, bool)

	// Save upserts by ID after NormalizeForSave, returning the record as
	// persisted. A missing ID is assigned from the current timestamp.
	Save(l lift.Lift) (lift.Lift, error)

	// Delete removes by ID. Deleting an absent lift is not an error.
	Delete(id string) error

	// MovementNames returns the distinct movement vocabulary: the sidecar
	// index merged with names observed in stored lifts, sorted.
	MovementNames(ctx context.Context) []string

	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config, or
// the discovered config when nil.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

const (
	recordSuffix       = ".json"
	movementsIndexFile = ".movements.json"
)

func (p *persistence) read(key string) (lift.Lift, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return lift.Lift{}, err
	}
	var l lift.Lift
	if err := json.Unmarshal(val, &l); err != nil {
		return lift.Lift{}, err
	}
	if l.ID == "" {
		l.ID = key
	}
	// Repair malformed dates on load rather than treating them as errors.
	l.Date = l.ResolveDate()
	return l, nil
}

func (p *persistence) All(ctx context.Context) map[string]lift.Lift {
	all := make(map[string]lift.Lift)
	for key := range p.d.Keys(ctx.Done()) {
		l, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all[l.ID] = l
	}
	return all
}

func (p *persistence) Get(ctx context.Context, id string) (lift.Lift, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return lift.Lift{}, false
	}
	if l, err := p.read(id); err == nil {
		return l, true
	}
	// Legacy lookups keyed lifts by date.
	for _, l := range p.All(ctx) {
		if l.Date == id {
			return l, true
		}
	}
	return lift.Lift{}, false
}

func (p *persistence) Save(l lift.Lift) (lift.Lift, error) {
	if strings.TrimSpace(l.ID) == "" {
		l.ID = lift.New(l.Title).ID
	}
	l = lift.NormalizeForSave(l)
	data, err := json.Marshal(l)
	if err != nil {
		return lift.Lift{}, err
	}
	if err := p.d.Write(l.ID, data); err != nil {
		return lift.Lift{}, err
	}
	if err := p.indexMovements(l); err != nil {
		fmt.Fprintf(os.Stderr, "store: index movements: %v\n", err)
	}
	return l, nil
}

func (p *persistence) Delete(id string) error {
	err := p.d.Erase(id)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (p *persistence) MovementNames(ctx context.Context) []string {
	names := make(map[string]string)
	if idx, err := p.loadMovementsIndex(); err == nil {
		for _, name := range idx {
			names[strings.ToLower(name)] = name
		}
	} else {
		fmt.Fprintf(os.Stderr, "store: load movements index: %v\n", err)
	}
	for _, l := range p.All(ctx) {
		for _, m := range l.Movements {
			name := strings.TrimSpace(m.Name)
			if name == "" {
				continue
			}
			if _, ok := names[strings.ToLower(name)]; !ok {
				names[strings.ToLower(name)] = name
			}
		}
	}
	list := make([]string, 0, len(names))
	for _, name := range names {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// indexMovements folds the lift's movement names into the sidecar index. The
// index is additive vocabulary; deletes leave it alone.
func (p *persistence) indexMovements(l lift.Lift) error {
	if len(l.Movements) == 0 {
		return nil
	}
	idx, err := p.loadMovementsIndex()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(idx))
	for _, name := range idx {
		known[strings.ToLower(name)] = true
	}
	changed := false
	for _, m := range l.Movements {
		name := strings.TrimSpace(m.Name)
		if name == "" || known[strings.ToLower(name)] {
			continue
		}
		idx = append(idx, name)
		known[strings.ToLower(name)] = true
		changed = true
	}
	if !changed {
		return nil
	}
	sort.Strings(idx)
	return p.saveMovementsIndex(idx)
}

func (p *persistence) movementsIndexPath() string {
	return filepath.Join(p.basePath, movementsIndexFile)
}

func (p *persistence) loadMovementsIndex() ([]string, error) {
	if p.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.movementsIndexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *persistence) saveMovementsIndex(idx []string) error {
	if p.basePath == "" {
		return errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	path := p.movementsIndexPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Records live flat under the base path as <id>.json; the transform keeps
// diskv keys equal to lift IDs.
func keyToPathTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: s + recordSuffix,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, recordSuffix)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"feature-merge/core/database"
	"feature-merge/core/gff"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateID is returned when an id is already taken.
	ErrDuplicateID = errors.New("duplicate feature id")
	// ErrUnknownID is returned when an id is not in the store.
	ErrUnknownID = errors.New("unknown feature id")
	// ErrSourceEmpty is returned by UpdateFrom when the source yielded nothing.
	ErrSourceEmpty = errors.New("source produced no features")
)

// state is shared by a Store and its transactional views.
type state struct {
	mu       sync.Mutex
	counters map[string]int
	children map[string][]string
	parents  map[string][]string
	bound    map[string]string
}

// Store is an indexed collection of features.
type Store struct {
	db  *gorm.DB
	st  *state
	log *zap.Logger
}

// Open migrates the feature table on db and returns an empty store view over it.
// Existing rows are removed so every run starts from a clean table.
func Open(ctx context.Context, db *gorm.DB, log *zap.Logger) (*Store, error) {
	if err := migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to migrate feature table: %w", err)
	}
	if err := database.RequireColumns(db, tableName, requiredColumns...); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&featureRow{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear feature table: %w", err)
	}
	return newStore(db, log), nil
}

func newStore(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		db:  db,
		log: log,
		st: &state{
			counters: make(map[string]int),
			children: make(map[string][]string),
			parents:  make(map[string][]string),
			bound:    make(map[string]string),
		},
	}
}

// Transaction runs fn against a view of the store bound to one database
// transaction. The view shares counters and indices with s. When the
// transaction fails the parent and binding indices are restored; id counters
// stay advanced so a drawn id is never handed out twice.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	snap := s.st.snapshot()
	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Store{db: gtx, st: s.st, log: s.log})
	})
	if err != nil {
		s.st.restore(snap)
	}
	return err
}

// indices is a copy of the link indices of a state.
type indices struct {
	children map[string][]string
	parents  map[string][]string
	bound    map[string]string
}

func (st *state) snapshot() indices {
	st.mu.Lock()
	defer st.mu.Unlock()
	return indices{
		children: copyLinks(st.children),
		parents:  copyLinks(st.parents),
		bound:    maps.Clone(st.bound),
	}
}

func (st *state) restore(ix indices) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.children = ix.children
	st.parents = ix.parents
	st.bound = ix.bound
}

// copyLinks deep copies m; unindexParents edits the slices in place.
func copyLinks(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Insert adds f. It fails with ErrDuplicateID if the id is taken.
func (s *Store) Insert(ctx context.Context, f *gff.Feature) error {
	if f.ID == "" {
		return fmt.Errorf("%w: feature without id", ErrUnknownID)
	}
	exists, err := s.Exists(ctx, f.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, f.ID)
	}
	if err := s.db.WithContext(ctx).Create(toRow(f)).Error; err != nil {
		return fmt.Errorf("failed to insert feature %s: %w", f.ID, err)
	}
	s.indexParents(f.ID, f.Parents())
	return nil
}

// put inserts or overwrites f.
func (s *Store) put(ctx context.Context, f *gff.Feature) error {
	if err := s.db.WithContext(ctx).Save(toRow(f)).Error; err != nil {
		return fmt.Errorf("failed to save feature %s: %w", f.ID, err)
	}
	s.unindexParents(f.ID)
	s.indexParents(f.ID, f.Parents())
	return nil
}

// Get returns the feature stored under id.
func (s *Store) Get(ctx context.Context, id string) (*gff.Feature, error) {
	var row featureRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownID, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feature %s: %w", id, err)
	}
	return row.toFeature(), nil
}

// Exists reports whether id is stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&featureRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to look up feature %s: %w", id, err)
	}
	return n > 0, nil
}

// Count returns the number of stored features.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&featureRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count features: %w", err)
	}
	return n, nil
}

// Delete removes the feature stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&featureRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete feature %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownID, id)
	}
	s.unindexParents(id)

	s.st.mu.Lock()
	delete(s.st.bound, id)
	s.st.mu.Unlock()
	return nil
}

// NextID returns a new id "<featureType>_<n>" and advances the counter.
// Numbers already used by stored features are skipped.
func (s *Store) NextID(ctx context.Context, featureType string) (string, error) {
	for {
		s.st.mu.Lock()
		n := s.st.counters[featureType] + 1
		s.st.counters[featureType] = n
		s.st.mu.Unlock()

		id := fmt.Sprintf("%s_%d", featureType, n)
		exists, err := s.Exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
}

// BindParent makes child a component of parent: the child's Parent attribute
// is set to the parent's id and the link is recorded for hierarchical output.
func (s *Store) BindParent(ctx context.Context, parent, child *gff.Feature) error {
	stored, err := s.Get(ctx, child.ID)
	if err != nil {
		return err
	}
	stored.Attributes.Set(gff.AttrParent, parent.ID)
	child.Attributes.Set(gff.AttrParent, parent.ID)
	if err := s.put(ctx, stored); err != nil {
		return err
	}

	s.st.mu.Lock()
	s.st.bound[child.ID] = parent.ID
	s.st.mu.Unlock()
	return nil
}

// Children returns the ids whose Parent attribute names id, in link order.
func (s *Store) Children(id string) []string {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return append([]string(nil), s.st.children[id]...)
}

// BoundParent returns the aggregate child was bound to, or "".
func (s *Store) BoundParent(child string) string {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return s.st.bound[child]
}

func (s *Store) indexParents(id string, parents []string) {
	if len(parents) == 0 {
		return
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.parents[id] = append([]string(nil), parents...)
	for _, p := range parents {
		s.st.children[p] = append(s.st.children[p], id)
	}
}

func (s *Store) unindexParents(id string) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, p := range s.st.parents[id] {
		kids := s.st.children[p]
		for i, k := range kids {
			if k == id {
				kids = append(kids[:i], kids[i+1:]...)
				break
			}
		}
		if len(kids) == 0 {
			delete(s.st.children, p)
		} else {
			s.st.children[p] = kids
		}
	}
	delete(s.st.parents, id)
}

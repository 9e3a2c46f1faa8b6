package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wI2L/jsondiff"

	"github.com/iota-uz/treesync/pkg/tree"
)

var ErrDialogNotFound = errors.New("dialog not found")

// PermissionDialog is the checkbox tree of a role or menu assignment dialog.
// It owns its selection and expansion state; the forest is shared and read-only.
type PermissionDialog struct {
	ID   uuid.UUID
	Kind string

	mu       sync.Mutex
	forest   tree.Forest
	initial  tree.SelectionSet
	current  tree.SelectionSet
	expanded tree.ExpansionSet
	stale    bool
}

func newPermissionDialog(kind string, forest tree.Forest, seed []tree.ID, expandDepth int) *PermissionDialog {
	initial := tree.Normalize(forest, tree.NewSelectionSet(seed...))
	return &PermissionDialog{
		ID:       uuid.New(),
		Kind:     kind,
		forest:   forest,
		initial:  initial,
		current:  initial.Clone(),
		expanded: tree.ExpandToDepth(forest, expandDepth),
	}
}

// Toggle handles a checkbox click and returns the node's new state.
func (d *PermissionDialog) Toggle(id tree.ID) tree.CheckState {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = tree.Check(d.forest, d.current, id)
	n, ok := d.forest.Find(id)
	if !ok {
		return tree.Unchecked
	}
	return tree.State(n, d.current)
}

// Stale reports that the kind was reloaded after the dialog opened. The dialog keeps
// working on the forest it was opened with; callers decide whether to reopen it.
func (d *PermissionDialog) Stale() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stale
}

func (d *PermissionDialog) markStale() {
	d.mu.Lock()
	d.stale = true
	d.mu.Unlock()
}

func (d *PermissionDialog) SelectAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = tree.SelectAll(d.forest)
}

func (d *PermissionDialog) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = tree.Clear()
}

// Reset restores the selection the dialog was opened with.
func (d *PermissionDialog) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = d.initial.Clone()
}

func (d *PermissionDialog) State(id tree.ID) tree.CheckState {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.forest.Find(id)
	if !ok {
		return tree.Unchecked
	}
	return tree.State(n, d.current)
}

func (d *PermissionDialog) ToggleExpanded(id tree.ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expanded.Toggle(id)
}

// Snapshot returns the visible rows with copies of the selection and expansion state.
func (d *PermissionDialog) Snapshot() ([]tree.Row, tree.SelectionSet, tree.ExpansionSet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	expanded := tree.NewExpansionSet(d.expanded.IDs()...)
	return tree.Flatten(d.forest, expanded), d.current.Clone(), expanded
}

// Selected is the request body for submission: every checked id, sorted.
func (d *PermissionDialog) Selected() []tree.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.IDs()
}

func (d *PermissionDialog) Changes() (added, removed []tree.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return tree.Changes(d.initial, d.current)
}

type selectionDocument struct {
	IDs []tree.ID `json:"ids"`
}

// Patch is the RFC 6902 patch turning the opened selection into the current one,
// for backends that accept partial updates.
func (d *PermissionDialog) Patch() ([]byte, error) {
	d.mu.Lock()
	before := selectionDocument{IDs: d.initial.IDs()}
	after := selectionDocument{IDs: d.current.IDs()}
	d.mu.Unlock()

	patch, err := jsondiff.Compare(before, after)
	if err != nil {
		return nil, errors.Wrap(err, "diff selection")
	}
	if patch == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(patch)
}

type DialogStoreOptions struct {
	ExpandDepth int
	Logger      logrus.FieldLogger
}

// DialogStore tracks open dialogs by id. Each dialog is expected to have a single
// mutator; concurrent writers to the same dialog are last-writer-wins.
type DialogStore struct {
	trees *TreeService
	opts  DialogStoreOptions

	mu      sync.RWMutex
	dialogs map[uuid.UUID]*PermissionDialog
}

func NewDialogStore(trees *TreeService, opts DialogStoreOptions) *DialogStore {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	s := &DialogStore{trees: trees, opts: opts, dialogs: make(map[uuid.UUID]*PermissionDialog)}
	if bus := trees.opts.Events; bus != nil {
		if err := bus.Subscribe(s.onInvalidated); err != nil {
			opts.Logger.WithError(err).Error("console.dialog.subscribe_failed")
		}
	}
	return s
}

func (s *DialogStore) onInvalidated(e *ForestInvalidated) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.dialogs {
		if e.Affects(d.Kind) {
			d.markStale()
		}
	}
}

// Open builds a dialog over kind's forest seeded with the ids the backend has on record.
// Seeded ids that no longer exist are dropped.
func (s *DialogStore) Open(ctx context.Context, kind string, seed []tree.ID) (*PermissionDialog, error) {
	forest, err := s.trees.Forest(ctx, kind)
	if err != nil {
		return nil, err
	}
	d := newPermissionDialog(kind, forest, seed, s.opts.ExpandDepth)

	s.mu.Lock()
	s.dialogs[d.ID] = d
	s.mu.Unlock()
	dialogsOpen.Inc()

	s.opts.Logger.WithFields(logrus.Fields{
		"dialog_id": d.ID.String(),
		"kind":      kind,
		"seeded":    len(seed),
		"selected":  len(d.initial),
	}).Debug("console.dialog.opened")
	return d, nil
}

func (s *DialogStore) Get(id uuid.UUID) (*PermissionDialog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dialogs[id]
	if !ok {
		return nil, errors.Wrapf(ErrDialogNotFound, "%s", id)
	}
	return d, nil
}

func (s *DialogStore) Close(id uuid.UUID) {
	s.mu.Lock()
	_, ok := s.dialogs[id]
	delete(s.dialogs, id)
	s.mu.Unlock()
	if ok {
		dialogsOpen.Dec()
	}
}

func (s *DialogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dialogs)
}

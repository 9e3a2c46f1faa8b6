package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/treesync/pkg/tree"
)

// MenuService backs the parent selector of the menu and department edit dialogs.
// The selector shows label paths; on submit the chosen path is resolved back to an id.
type MenuService struct {
	trees  *TreeService
	logger logrus.FieldLogger
}

func NewMenuService(trees *TreeService, logger logrus.FieldLogger) *MenuService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MenuService{trees: trees, logger: logger}
}

// ParentOptions lists candidate parents. When editingID is set its subtree is excluded.
func (s *MenuService) ParentOptions(ctx context.Context, kind string, editingID tree.ID) ([]tree.PathOption, error) {
	forest, err := s.trees.Forest(ctx, kind)
	if err != nil {
		return nil, err
	}
	return tree.PathOptions(forest, editingID), nil
}

// ParentPath renders the current parent of a record for the dialog's display field.
func (s *MenuService) ParentPath(ctx context.Context, kind string, parentID tree.ID) (string, error) {
	if parentID.IsZero() {
		return "", nil
	}
	forest, err := s.trees.Forest(ctx, kind)
	if err != nil {
		return "", err
	}
	path, _ := forest.Index().PathOf(parentID)
	return path, nil
}

// ResolveParent turns the submitted path back into a parent id. An empty path means a
// root. When the path no longer resolves, the previously known fallback id is returned
// and resolved is false.
func (s *MenuService) ResolveParent(ctx context.Context, kind, path string, fallback tree.ID) (id tree.ID, resolved bool, err error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", true, nil
	}
	forest, err := s.trees.Forest(ctx, kind)
	if err != nil {
		return "", false, err
	}
	if n, ok := tree.DecodePath(path, forest); ok {
		return n.ID, true, nil
	}
	s.logger.WithFields(logrus.Fields{
		"kind":     kind,
		"path":     path,
		"fallback": fallback.String(),
	}).Warn("console.menu.parent_path_unresolved")
	return fallback, false, nil
}

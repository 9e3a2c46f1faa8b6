package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/treesync/pkg/eventbus"
	"github.com/iota-uz/treesync/pkg/tree"
)

var tracer = otel.Tracer("treesync-console")

var ErrNoKind = errors.New("record kind is required")

// RecordSource is the list endpoint a management screen reads flat records from.
type RecordSource interface {
	ListRecords(ctx context.Context, kind string) ([]tree.Record, error)
}

type TreeServiceOptions struct {
	CacheEnabled bool
	Logger       logrus.FieldLogger
	Now          func() time.Time
	// Events receives ForestLoaded and ForestInvalidated. Optional.
	Events *eventbus.Bus
}

// TreeService builds one forest per record kind and keeps it until the kind is
// invalidated. Forests are immutable, so a cached forest is shared between callers.
type TreeService struct {
	source RecordSource
	cache  *forestCache
	opts   TreeServiceOptions
}

func NewTreeService(source RecordSource, opts TreeServiceOptions) *TreeService {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TreeService{source: source, cache: newForestCache(), opts: opts}
}

func (s *TreeService) Forest(ctx context.Context, kind string) (tree.Forest, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, ErrNoKind
	}
	if s.opts.CacheEnabled {
		cached, ok := s.cache.Get(kind)
		recordCacheRequest(kind, ok)
		if ok {
			return cached.Forest, nil
		}
	}

	ctx, span := tracer.Start(ctx, "console.tree.load",
		trace.WithAttributes(attribute.String("tree.kind", kind)),
	)
	defer span.End()

	start := s.opts.Now()
	records, err := s.source.ListRecords(ctx, kind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list records")
		return nil, errors.Wrapf(err, "list %s records", kind)
	}

	logger := s.opts.Logger.WithField("kind", kind)
	diagnostics := 0
	forest := tree.Build(records,
		tree.WithLogger(logger),
		tree.WithDiagnostics(func(d tree.Diagnostic) {
			diagnostics++
			recordDiagnostic(kind, d)
		}),
	)

	treeBuilds.WithLabelValues(kind).Inc()
	treeBuildDuration.WithLabelValues(kind).Observe(s.opts.Now().Sub(start).Seconds())
	span.SetAttributes(
		attribute.Int("tree.records", len(records)),
		attribute.Int("tree.roots", len(forest)),
		attribute.Int("tree.diagnostics", diagnostics),
	)
	logger.WithFields(logrus.Fields{
		"records":     len(records),
		"roots":       len(forest),
		"diagnostics": diagnostics,
	}).Debug("console.tree.loaded")

	if s.opts.CacheEnabled {
		s.cache.Set(kind, cachedForest{Forest: forest, Records: len(records), LoadedAt: s.opts.Now()})
	}
	s.opts.Events.Publish(&ForestLoaded{Kind: kind, Records: len(records), Roots: len(forest), Diagnostics: diagnostics})
	return forest, nil
}

// Invalidate drops the cached forest so the next call reloads it. Subscribers are
// told even when nothing was cached, since the backend data changed either way.
func (s *TreeService) Invalidate(kind string) {
	if s.cache.Invalidate(kind) {
		recordCacheInvalidate("reload")
	}
	s.opts.Events.Publish(&ForestInvalidated{Kind: kind})
}

func (s *TreeService) InvalidateAll() {
	if s.cache.InvalidateAll() > 0 {
		recordCacheInvalidate("reload_all")
	}
	s.opts.Events.Publish(&ForestInvalidated{All: true})
}

// Rows flattens the kind's forest for a table, optionally filtered by query.
// Filtering expands the ancestors of every surviving node so hits are visible.
func (s *TreeService) Rows(ctx context.Context, kind string, query string, expanded tree.ExpansionSet, fuzzy bool) ([]tree.Row, error) {
	forest, err := s.Forest(ctx, kind)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return tree.Flatten(forest, expanded), nil
	}

	var opts []tree.FilterOption
	if fuzzy {
		opts = append(opts, tree.WithMatcher(tree.MatchFuzzy))
	}
	filtered := tree.Filter(forest, query, opts...)
	return tree.Flatten(filtered, tree.ExpandAll(filtered)), nil
}

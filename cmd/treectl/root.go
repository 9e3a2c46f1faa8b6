package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/treesync/modules/console/infrastructure/recordfile"
	"github.com/iota-uz/treesync/modules/console/services"
	"github.com/iota-uz/treesync/pkg/configuration"
	"github.com/iota-uz/treesync/pkg/eventbus"
	"github.com/iota-uz/treesync/pkg/tree"
)

const inputKind = "input"

type rootOptions struct {
	Input      string `validate:"required"`
	Format     string `validate:"omitempty,oneof=auto json yaml yml toml csv"`
	Patch      string
	MetricsOut string
	EnvFiles   []string
}

// app carries what every subcommand needs once the persistent flags are parsed.
type app struct {
	opts   rootOptions
	format recordfile.Format
	cfg    *configuration.Configuration
	logger logrus.FieldLogger
	trees  *services.TreeService
	menus  *services.MenuService
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "treectl",
		Short:         "Build, flatten, filter and select record trees from flat record files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.Input, "input", "", "Record file: .json, .yaml, .toml or .csv (required)")
	flags.StringVar(&a.opts.Format, "format", "auto", "Record format: auto|json|yaml|toml|csv")
	flags.StringVar(&a.opts.Patch, "patch", "", "RFC 6902 JSON patch applied to the record document before decoding")
	flags.StringVar(&a.opts.MetricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile on exit")
	flags.StringSliceVar(&a.opts.EnvFiles, "env-file", []string{".env", ".env.local"}, "Env files to load before reading configuration")
	_ = flags.MarkHidden("env-file")

	cmd.AddCommand(newTreeCmd(a))
	cmd.AddCommand(newFlattenCmd(a))
	cmd.AddCommand(newFilterCmd(a))
	cmd.AddCommand(newPathsCmd(a))
	cmd.AddCommand(newResolveCmd(a))
	cmd.AddCommand(newSelectCmd(a))
	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newDiffCmd(a))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintf(os.Stderr, "treectl: %s: %v\n", code, err)
		os.Exit(int(code))
	}
}

func (a *app) setup() error {
	if err := validateOptions(a.opts); err != nil {
		if a.opts.Input == "" {
			return withCode(exitUsage, errors.New("--input is required"))
		}
		return withCode(exitValidation, err)
	}
	format, err := recordfile.ParseFormat(a.opts.Format)
	if err != nil {
		return withCode(exitValidation, err)
	}
	a.format = format

	cfg, err := configuration.Load(a.opts.EnvFiles)
	if err != nil {
		return withCode(exitValidation, err)
	}
	a.cfg = cfg
	a.logger = cfg.Logger().WithField("input", a.opts.Input)

	source := &recordfile.Source{
		Files:     map[string]string{inputKind: a.opts.Input},
		Format:    format,
		PatchPath: a.opts.Patch,
	}
	bus := eventbus.New(a.logger)
	if err := bus.Subscribe(a.onForestLoaded); err != nil {
		return err
	}
	a.trees = services.NewTreeService(source, services.TreeServiceOptions{
		CacheEnabled: cfg.Tree.CacheEnabled,
		Logger:       a.logger,
		Events:       bus,
	})
	a.menus = services.NewMenuService(a.trees, a.logger)
	return nil
}

func (a *app) onForestLoaded(e *services.ForestLoaded) {
	entry := a.logger.WithFields(logrus.Fields{
		"records":     e.Records,
		"roots":       e.Roots,
		"diagnostics": e.Diagnostics,
	})
	if e.Diagnostics > 0 {
		entry.Warn("treectl.forest.diagnostics")
		return
	}
	entry.Info("treectl.forest.loaded")
}

func (a *app) finish() error {
	defer a.cfg.Unload()

	path := a.opts.MetricsOut
	if path == "" && a.cfg.Prometheus.Enabled {
		path = a.cfg.Prometheus.Textfile
	}
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "write metrics %s", path))
	}
	a.logger.WithField("path", path).Debug("treectl.metrics.written")
	return nil
}

func (a *app) forest(ctx context.Context) (tree.Forest, error) {
	forest, err := a.trees.Forest(ctx, inputKind)
	if err != nil {
		return nil, loadError(err)
	}
	return forest, nil
}

// readForest builds a forest from a second record file, used by diff.
func (a *app) readForest(path string) (tree.Forest, error) {
	records, err := recordfile.ReadFile(path, a.format, "")
	if err != nil {
		return nil, loadError(err)
	}
	return tree.Build(records, tree.WithLogger(a.logger.WithField("against", path))), nil
}

func loadError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return withCode(exitIO, err)
	}
	return withCode(exitValidation, err)
}

func validateOptions(v any) error {
	if err := validator.New().Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s=%v (rule %s)", fe.Field(), fe.Value(), fe.Tag())
		}
		return err
	}
	return nil
}

// expandDepth resolves the --expand flag; unset falls back to TREE_EXPAND_DEPTH.
func (a *app) expandDepth(cmd *cobra.Command, depth int) int {
	if cmd.Flags().Changed("expand") {
		return depth
	}
	return a.cfg.Tree.ExpandDepth
}

func toIDs(values []string) []tree.ID {
	out := make([]tree.ID, 0, len(values))
	for _, v := range values {
		out = append(out, tree.ID(v))
	}
	return out
}

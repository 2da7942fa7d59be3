// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/catalogsync/cmd/catalogsync/opts"
	"github.com/walteh/catalogsync/pkg/catalog"
	"github.com/walteh/catalogsync/pkg/config"
	"github.com/walteh/catalogsync/pkg/endpoint"
	"github.com/walteh/catalogsync/pkg/log"
	"github.com/walteh/catalogsync/pkg/remote"
	"github.com/walteh/catalogsync/pkg/replicate"
	"github.com/walteh/catalogsync/pkg/source"
	"github.com/walteh/catalogsync/pkg/target"
	"gitlab.com/tozd/go/errors"
)

// ErrNoTypes is returned when neither --type nor --all was given.
var ErrNoTypes = errors.Base("no object types selected")

type replicateFlags struct {
	source        string
	target        string
	types         []string
	all           bool
	concurrency   int
	timeout       time.Duration
	include       []string
	exclude       []string
	sourceProject string
	targetProject string
}

// NewReplicateCmd creates the replicate command
func NewReplicateCmd(root *opts.RootOpts) *cobra.Command {
	flags := &replicateFlags{}

	cmd := &cobra.Command{
		Use:   "replicate",
		Short: "Copy catalog objects from a source endpoint to a target endpoint",
		Long: `Replicate reads every object of the selected types from the source,
cleans server managed fields and writes the result to the target.

Each type is processed in order. Writes within a type run concurrently.
A type whose listing fails is reported as aborted; a failed object never stops
the others. The command exits 0 once the report is printed, even when some
objects failed.`,
		Example: `  # API to API, every type
  SOURCE_API_KEY=... TARGET_API_KEY=... catalogsync replicate \
    --source https://prod.example.com --target https://staging.example.com --all

  # back up two types to a directory
  SOURCE_API_KEY=... catalogsync replicate --source https://prod.example.com \
    --target ./backup --type workflow-handler --type config-context`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplicate(cmd, root, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.source, "source", "s", "", "source endpoint: catalog API base URL or directory")
	f.StringVarP(&flags.target, "target", "t", "", "target endpoint: catalog API base URL or directory")
	f.StringSliceVar(&flags.types, "type", nil, "object type to replicate, by name or collection segment (repeatable)")
	f.BoolVar(&flags.all, "all", false, "replicate every object type")
	f.IntVar(&flags.concurrency, "concurrency", replicate.DefaultConcurrency, "writes in flight per object type")
	f.DurationVar(&flags.timeout, "timeout", remote.DefaultTimeout, "per request timeout")
	f.StringSliceVar(&flags.include, "include", nil, "only replicate objects whose name matches this glob (repeatable)")
	f.StringSliceVar(&flags.exclude, "exclude", nil, "skip objects whose name matches this glob (repeatable)")
	f.StringVar(&flags.sourceProject, "source-project", catalog.DefaultProject, "project to read from on a source API")
	f.StringVar(&flags.targetProject, "target-project", catalog.DefaultProject, "project written into every object and used on a target API")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	cmd.MarkFlagsMutuallyExclusive("type", "all")

	return cmd
}

// applyFlags overlays explicitly set flags onto cfg.
func (flags *replicateFlags) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("concurrency") {
		cfg.Concurrency = flags.concurrency
	}
	if f.Changed("timeout") {
		cfg.Timeout = flags.timeout
	}
	if f.Changed("source-project") {
		cfg.SourceProject = flags.sourceProject
	}
	if f.Changed("target-project") {
		cfg.TargetProject = flags.targetProject
	}
	cfg.Include = append(cfg.Include, flags.include...)
	cfg.Exclude = append(cfg.Exclude, flags.exclude...)
}

func runReplicate(cmd *cobra.Command, root *opts.RootOpts, flags *replicateFlags) error {
	ctx := cmd.Context()

	runID, err := uuid.NewV7()
	if err != nil {
		return errors.Errorf("generating run id: %w", err)
	}
	logger := zerolog.Ctx(ctx).With().Str("command", "replicate").Str("run_id", runID.String()).Logger()
	ctx = logger.WithContext(ctx)

	cfg, err := root.LoadConfig(ctx)
	if err != nil {
		return err
	}
	flags.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating options: %w", err)
	}

	registry, err := cfg.Registry(catalog.DefaultRegistry())
	if err != nil {
		return err
	}
	var types []catalog.ObjectType
	switch {
	case flags.all:
		types = registry.All()
	case len(flags.types) > 0:
		if types, err = registry.Resolve(flags.types); err != nil {
			return err
		}
	default:
		return errors.Errorf("%w: pass --type or --all", ErrNoTypes)
	}

	src := endpoint.Parse(flags.source)
	dst := endpoint.Parse(flags.target)

	keys, err := config.Credentials(src, dst, nil)
	if err != nil {
		return err
	}

	filter, err := cfg.Filter()
	if err != nil {
		return err
	}

	reader := newReader(cfg, src, cfg.ClientOptions(keys.Source, runID.String()), filter)
	writer := newWriter(cfg, dst, cfg.ClientOptions(keys.Target, runID.String()))

	console := log.FromContext(ctx)
	r, err := replicate.New(replicate.Options{
		Reader:         reader,
		Writer:         writer,
		TargetProject:  cfg.TargetProject,
		Concurrency:    cfg.Concurrency,
		KeepRawListing: src.IsURL() && !dst.IsURL(),
		Observer:       console,
	})
	if err != nil {
		return errors.Errorf("creating replicator: %w", err)
	}

	console.Header(fmt.Sprintf("%s → %s", src, dst))
	logger.Info().
		Str("source", src.String()).
		Str("target", dst.String()).
		Int("types", len(types)).
		Int("concurrency", cfg.Concurrency).
		Msg("starting replication")

	rep := r.Run(ctx, types)

	if err := rep.Render(root.Stdout); err != nil {
		return errors.Errorf("rendering report: %w", err)
	}

	console.LogNewline()
	if rep.HasFailures() {
		console.Warning(rep.Summary())
	} else {
		console.Success(rep.Summary())
	}
	return nil
}

func newReader(cfg *config.Config, src endpoint.Endpoint, client remote.Options, filter source.Filter) source.Reader {
	if !src.IsURL() {
		return &source.DiskReader{Root: src, Filter: filter}
	}
	return &source.APIReader{
		Base:        src,
		Project:     cfg.SourceProject,
		Client:      remote.New(client),
		Concurrency: cfg.Concurrency,
		Filter:      filter,
	}
}

func newWriter(cfg *config.Config, dst endpoint.Endpoint, client remote.Options) target.Writer {
	if !dst.IsURL() {
		return &target.DiskWriter{Root: dst, Extension: cfg.Extension}
	}
	return &target.APIWriter{
		Base:    dst,
		Project: cfg.TargetProject,
		Client:  remote.New(client),
	}
}

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

package replicate

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/walteh/catalogsync/pkg/catalog"
	"github.com/walteh/catalogsync/pkg/log"
	"github.com/walteh/catalogsync/pkg/report"
	"github.com/walteh/catalogsync/pkg/source"
	"github.com/walteh/catalogsync/pkg/target"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of writes in flight per object type.
const DefaultConcurrency = 5

// 👀 Observer is told about progress as it happens.
type Observer interface {
	TypeStarted(ctx context.Context, t catalog.ObjectType)
	ObjectReplicated(ctx context.Context, o report.Outcome)
	TypeFinished(ctx context.Context, t catalog.ObjectType, err error)
}

// Options configures a Replicator.
type Options struct {
	Reader        source.Reader
	Writer        target.Writer
	TargetProject string // written into metadata.project of every object
	Concurrency   int    // defaults to DefaultConcurrency
	// KeepRawListing persists the raw listing before cleaning when the
	// writer supports it and the reader produced one.
	KeepRawListing bool
	Observer       Observer // optional
}

// 🔄 Replicator drives read, clean and write for one object type at a time.
type Replicator struct {
	reader         source.Reader
	writer         target.Writer
	project        string
	concurrency    int
	keepRawListing bool
	observer       Observer
}

// 🏭 New creates a replicator with the given options
func New(opts Options) (*Replicator, error) {
	if opts.Reader == nil {
		return nil, errors.Errorf("reader is required")
	}
	if opts.Writer == nil {
		return nil, errors.Errorf("writer is required")
	}
	project := opts.TargetProject
	if project == "" {
		project = catalog.DefaultProject
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &Replicator{
		reader:         opts.Reader,
		writer:         opts.Writer,
		project:        project,
		concurrency:    concurrency,
		keepRawListing: opts.KeepRawListing,
		observer:       observer,
	}, nil
}

// 🏃 Run replicates each type in order. A type whose listing fails is
// recorded as aborted and the run moves on to the next type.
func (r *Replicator) Run(ctx context.Context, types []catalog.ObjectType) *report.Report {
	rep := &report.Report{}

	for _, t := range types {
		if err := ctx.Err(); err != nil {
			rep.AddAbort(t.Segment, errors.Errorf("not started: %w", err))
			continue
		}

		outcomes, err := r.ReplicateType(ctx, t)
		rep.AddOutcomes(outcomes...)
		if err != nil {
			rep.AddAbort(t.Segment, err)
		}
	}

	return rep
}

// 🔄 ReplicateType copies every object version of one type. The returned
// error is only ever a listing failure; per object failures are outcomes.
func (r *Replicator) ReplicateType(ctx context.Context, t catalog.ObjectType) ([]report.Outcome, error) {
	logger := zerolog.Ctx(ctx).With().Str("type", t.Segment).Logger()
	ctx = logger.WithContext(ctx)

	r.observer.TypeStarted(ctx, t)

	batch, err := r.reader.Read(ctx, t)
	if err != nil {
		err = errors.Errorf("reading %s: %w", t.Segment, err)
		r.observer.TypeFinished(ctx, t, err)
		return nil, err
	}

	if r.keepRawListing && batch.RawPages != nil {
		if lw, ok := r.writer.(target.ListingWriter); ok {
			if err := lw.WriteListing(ctx, t, batch.RawPages); err != nil {
				logger.Warn().Err(err).Msg("could not keep raw listing")
			}
		}
	}

	tasks, duplicates := r.tasks(ctx, batch)
	log.FromContext(ctx).Infof("read %d %s objects, %d versions to write", len(batch.Items), t.Segment, len(tasks))
	logger.Debug().Int("objects", len(batch.Items)).Int("tasks", len(tasks)).Msg("dispatching writes")

	collector := &report.Collector{}
	for _, dup := range duplicates {
		collector.Add(dup)
		r.observer.ObjectReplicated(ctx, dup)
	}

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, task := range tasks {
		g.Go(func() error {
			outcome := r.writer.Write(ctx, task)
			collector.Add(outcome)
			r.observer.ObjectReplicated(ctx, outcome)
			return nil
		})
	}
	_ = g.Wait()

	r.observer.TypeFinished(ctx, t, nil)
	return collector.Outcomes(), nil
}

// MessageDuplicate marks a record whose name and version were already taken by
// an earlier record of the same batch.
const MessageDuplicate = "duplicate of an earlier record with the same name and version"

type taskKey struct{ name, version string }

// tasks cleans every version of every item in the batch. The first record of
// each (name, version) wins; later ones come back as failed outcomes.
func (r *Replicator) tasks(ctx context.Context, batch *source.Batch) ([]target.Task, []report.Outcome) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[taskKey]bool)
	var tasks []target.Task
	var duplicates []report.Outcome
	for _, item := range batch.Items {
		name := item.Object.Name()
		for _, version := range item.Versions {
			key := taskKey{name: name, version: version.Version()}
			if seen[key] {
				dup := report.Outcome{Type: batch.Type.Segment, Name: key.name, Version: key.version, Message: MessageDuplicate}
				log.FromContext(ctx).Warningf("skipping duplicate record %s", dup.Key())
				duplicates = append(duplicates, dup)
				continue
			}
			seen[key] = true

			cleaned := catalog.Clean(version, r.project)

			if e := logger.Debug(); e.Enabled() {
				rawJSON, _ := json.Marshal(version)
				cleanedJSON, _ := json.Marshal(cleaned)
				e.Str("name", name).RawJSON("raw", rawJSON).RawJSON("cleaned", cleanedJSON).Msg("cleaned object")
			}

			tasks = append(tasks, target.Task{
				Type:    batch.Type,
				Name:    name,
				Version: key.version,
				Cleaned: cleaned,
				Raw:     version,
			})
		}
	}
	return tasks, duplicates
}

type nopObserver struct{}

func (nopObserver) TypeStarted(context.Context, catalog.ObjectType)         {}
func (nopObserver) ObjectReplicated(context.Context, report.Outcome)        {}
func (nopObserver) TypeFinished(context.Context, catalog.ObjectType, error) {}

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

package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// ✅ Outcome is the terminal result of replicating one object version.
type Outcome struct {
	Type       string // collection segment
	Name       string
	Version    string // "" for unversioned objects
	Success    bool
	Message    string // diagnostic detail, e.g. "already exists" or "500: boom"
	StatusCode int    // HTTP status when the target answered, 0 otherwise
	Timeout    bool   // the request deadline expired
}

// Key renders <type>/<name> (<version>).
func (o Outcome) Key() string {
	version := o.Version
	if version == "" {
		version = "latest"
	}
	return fmt.Sprintf("%s/%s (%s)", o.Type, o.Name, version)
}

// ⛔ Abort records an object type that could not be replicated at all.
type Abort struct {
	Type string
	Err  error
}

// 📥 Collector accumulates outcomes from concurrent workers.
type Collector struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// Add appends one outcome; safe for concurrent use.
func (c *Collector) Add(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
}

// Outcomes returns a copy of everything added so far, in completion order.
func (c *Collector) Outcomes() []Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Outcome, len(c.outcomes))
	copy(out, c.outcomes)
	return out
}

// 📊 Report is the summary of a whole run across object types.
type Report struct {
	Successes []Outcome
	Failures  []Outcome
	Aborted   []Abort
}

// AddOutcomes partitions outcomes into successes and failures.
func (r *Report) AddOutcomes(outcomes ...Outcome) {
	for _, o := range outcomes {
		if o.Success {
			r.Successes = append(r.Successes, o)
		} else {
			r.Failures = append(r.Failures, o)
		}
	}
}

// AddAbort records a type whose listing failed.
func (r *Report) AddAbort(typ string, err error) {
	r.Aborted = append(r.Aborted, Abort{Type: typ, Err: err})
}

// HasFailures reports whether anything failed or was aborted.
func (r *Report) HasFailures() bool {
	return len(r.Failures) > 0 || len(r.Aborted) > 0
}

// Summary returns a one line count of the report.
func (r *Report) Summary() string {
	s := fmt.Sprintf("%d succeeded, %d failed", len(r.Successes), len(r.Failures))
	if len(r.Aborted) > 0 {
		s += fmt.Sprintf(", %d types aborted", len(r.Aborted))
	}
	return s
}

// 📝 Render writes the human readable summary to w.
func (r *Report) Render(w io.Writer) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	lines := []string{
		"",
		color.New(color.Bold).Sprint("==================== Replication Summary ===================="),
		fmt.Sprintf("✅ Successes (%d):", len(r.Successes)),
	}
	for _, o := range r.Successes {
		line := "  - " + green(o.Key())
		if o.Message != "" {
			line += " " + faint("["+o.Message+"]")
		}
		lines = append(lines, line)
	}

	lines = append(lines, fmt.Sprintf("❌ Failures (%d):", len(r.Failures)))
	for _, o := range r.Failures {
		lines = append(lines, "  - "+red(o.Key())+" => "+o.Message)
	}

	if len(r.Aborted) > 0 {
		lines = append(lines, fmt.Sprintf("⛔ Aborted types (%d):", len(r.Aborted)))
		for _, a := range r.Aborted {
			lines = append(lines, "  - "+red(a.Type)+" => "+a.Err.Error())
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

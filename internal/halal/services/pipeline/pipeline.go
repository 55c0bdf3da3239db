// Package pipeline runs the row-by-row labeling of a material table:
// read the CSV, decide which rows need a label, classify them and either
// write the result or report a dry-run summary.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/haukened/halal-classifier/internal/halal/common/clock"
	"github.com/haukened/halal-classifier/internal/halal/common/log"
	"github.com/haukened/halal-classifier/internal/halal/domain"
	"github.com/haukened/halal-classifier/internal/halal/gateways/csvio"
)

// ContextCheckInterval is how often (in rows) the run checks for cancellation.
// Values below 1 check on every row.
var ContextCheckInterval = 100

// missingMarkers are status cells treated as unlabeled, matching the
// placeholders spreadsheet and dataframe tools write for missing values.
var missingMarkers = map[string]struct{}{
	"":     {},
	"#N/A": {},
	"<NA>": {},
	"N/A":  {},
	"n/a":  {},
	"NA":   {},
	"NULL": {},
	"null": {},
	"NaN":  {},
	"nan":  {},
	"None": {},
}

// Classifier decides the status of a single material name.
type Classifier interface {
	Classify(name string) domain.Decision
}

// Labeler maps a status to the text written into the status column.
type Labeler interface {
	Label(s domain.Status) string
}

// Options describes one run.
type Options struct {
	Input        string
	Output       string
	NameColumn   string
	StatusColumn string
	ReasonColumn string
	Overwrite    bool
	DryRun       bool
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Classifier Classifier
	Labels     Labeler
	Clock      clock.Clock // optional, defaults to the real clock
	Logger     log.Logger  // optional
}

// Pipeline labels material tables.
type Pipeline struct {
	classifier Classifier
	labels     Labeler
	clock      clock.Clock
	logger     log.Logger
	newRunID   func() string
}

// New constructs a Pipeline.
func New(d Deps) *Pipeline {
	p := &Pipeline{
		classifier: d.Classifier,
		labels:     d.Labels,
		clock:      d.Clock,
		logger:     d.Logger,
		newRunID:   func() string { return uuid.NewString() },
	}
	if p.clock == nil {
		p.clock = clock.RealClock{}
	}
	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	return p
}

// Run executes one labeling pass. In dry-run mode nothing is written.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Summary, error) {
	started := p.clock.Now()
	runID := p.newRunID()
	logger := p.logger.With(map[string]any{"run_id": runID})

	summary := Summary{RunID: runID, DryRun: opts.DryRun, Output: opts.Output}

	tbl, err := csvio.ReadFile(opts.Input)
	if err != nil {
		return summary, err
	}
	nameCol, err := tbl.RequireColumn(opts.NameColumn)
	if err != nil {
		return summary, fmt.Errorf("input %s: %w", opts.Input, err)
	}
	statusCol := tbl.EnsureColumn(opts.StatusColumn)
	reasonCol := tbl.EnsureColumn(opts.ReasonColumn)

	logger.Info(map[string]any{
		"input":     opts.Input,
		"rows":      tbl.Len(),
		"overwrite": opts.Overwrite,
		"dry_run":   opts.DryRun,
	}, "Labeling started")

	for i, row := range tbl.Rows {
		if ContextCheckInterval < 1 || i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return summary, fmt.Errorf("operation cancelled at row %d: %w", i+1, err)
			}
		}
		if !shouldUpdate(row[statusCol], opts.Overwrite) {
			summary.Skipped++
			continue
		}
		d := p.classifier.Classify(row[nameCol])
		if d.IsNull() {
			row[statusCol] = ""
			row[reasonCol] = ""
		} else {
			row[statusCol] = p.labels.Label(d.Status)
			row[reasonCol] = d.Reason
		}
		summary.Updated++
	}

	summary.Rows = tbl.Len()
	summary.Counts = countLabels(tbl, statusCol)

	if opts.DryRun {
		summary.Elapsed = clock.Since(p.clock, started)
		logger.Info(map[string]any{
			"rows":    summary.Rows,
			"updated": summary.Updated,
			"elapsed": summary.Elapsed.String(),
		}, "Dry run finished, output not written")
		return summary, nil
	}

	if err := csvio.WriteFileAtomic(opts.Output, tbl); err != nil {
		return summary, fmt.Errorf("failed to save output %s: %w", opts.Output, err)
	}
	summary.Written = true
	summary.Elapsed = clock.Since(p.clock, started)

	logger.Info(map[string]any{
		"output":  opts.Output,
		"rows":    summary.Rows,
		"updated": summary.Updated,
		"skipped": summary.Skipped,
		"elapsed": summary.Elapsed.String(),
	}, "Labeling finished")
	return summary, nil
}

// shouldUpdate reports whether a row's status cell may be (re)written.
func shouldUpdate(existing string, overwrite bool) bool {
	if overwrite {
		return true
	}
	_, missing := missingMarkers[strings.TrimSpace(existing)]
	return missing
}

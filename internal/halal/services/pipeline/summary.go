package pipeline

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/haukened/halal-classifier/internal/halal/gateways/csvio"
)

// NullLabel is how unlabeled rows appear in the summary.
const NullLabel = "(null)"

// LabelCount is the number of rows carrying one status label.
type LabelCount struct {
	Label string
	Count int
}

// Summary describes the outcome of a run.
type Summary struct {
	RunID   string
	Rows    int
	Updated int
	Skipped int
	Counts  []LabelCount // sorted by count desc, then label
	DryRun  bool
	Written bool
	Output  string
	Elapsed time.Duration
}

// Count returns the number of rows with the given label (NullLabel for unlabeled).
func (s Summary) Count(label string) int {
	for _, c := range s.Counts {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}

func countLabels(tbl *csvio.Table, statusCol int) []LabelCount {
	counts := make(map[string]int)
	for _, row := range tbl.Rows {
		label := strings.TrimSpace(row[statusCol])
		if _, missing := missingMarkers[label]; missing {
			label = NullLabel
		}
		counts[label]++
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Report prints the human-readable run summary.
func Report(w io.Writer, s Summary) error {
	var b strings.Builder
	b.WriteString("[Summary]\n")
	fmt.Fprintf(&b, "rows: %s\n", humanize.Comma(int64(s.Rows)))
	fmt.Fprintf(&b, "updated: %s\n", humanize.Comma(int64(s.Updated)))
	fmt.Fprintf(&b, "skipped: %s\n", humanize.Comma(int64(s.Skipped)))
	b.WriteString("status_counts:\n")
	for _, c := range s.Counts {
		fmt.Fprintf(&b, "  - %s: %s\n", c.Label, humanize.Comma(int64(c.Count)))
	}
	switch {
	case s.DryRun:
		b.WriteString("dry-run mode: output file is not written\n")
	case s.Written:
		fmt.Fprintf(&b, "saved: %s\n", s.Output)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

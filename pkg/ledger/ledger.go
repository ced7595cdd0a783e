// Package ledger keeps a short history of completed rollovers next to the vault.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/devlog/pkg/persist"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

// MaxRecords is the number of most recent rollovers kept.
const MaxRecords = 50

const basename = "rollovers"

// Record is one completed rollover.
type Record struct {
	Period         string    `json:"period"          yaml:"period"`
	Status         string    `json:"status"          yaml:"status"`
	Removed        int       `json:"removed"         yaml:"removed"`
	Kept           int       `json:"kept"            yaml:"kept"`
	UniqueIssues   int       `json:"unique_issues"   yaml:"unique_issues"`
	SummaryWritten bool      `json:"summary_written" yaml:"summary_written"`
	LogRewritten   bool      `json:"log_rewritten"   yaml:"log_rewritten"`
	Archived       bool      `json:"archived"        yaml:"archived"`
	At             time.Time `json:"at"              yaml:"at"`
}

type state struct {
	Records []Record `yaml:"records"`
}

// Ledger persists rollover records as a YAML state file.
type Ledger struct {
	store *persist.Persister[state]
	now   func() time.Time
}

// New opens the ledger stored in dir. now nil uses time.Now.
func New(dir string, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}

	return &Ledger{
		store: persist.NewPersister[state](dir, basename, persist.NewYAMLCodec()),
		now:   now,
	}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.store.Path()
}

// Record appends the outcome, dropping the oldest records beyond MaxRecords.
func (l *Ledger) Record(_ context.Context, outcome rollup.Outcome) error {
	records, err := l.Records()
	if err != nil {
		return err
	}

	rec := Record{
		Period:         outcome.Period.Key(),
		Status:         string(outcome.Status),
		Removed:        outcome.Removed,
		Kept:           outcome.Kept,
		SummaryWritten: outcome.SummaryWritten,
		LogRewritten:   outcome.LogRewritten,
		Archived:       outcome.Archived,
		At:             l.now(),
	}

	if outcome.Aggregate != nil {
		rec.UniqueIssues = len(outcome.Aggregate.UniqueIssues)
	}

	records = append(records, rec)
	if len(records) > MaxRecords {
		records = records[len(records)-MaxRecords:]
	}

	err = l.store.Save(&state{Records: records})
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	return nil
}

// Records returns all stored records, oldest first. A missing ledger is empty.
func (l *Ledger) Records() ([]Record, error) {
	st, err := l.store.Load()
	if errors.Is(err, persist.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	return st.Records, nil
}

// Recent returns up to n records, newest first.
func (l *Ledger) Recent(n int) ([]Record, error) {
	records, err := l.Records()
	if err != nil {
		return nil, err
	}

	slices.Reverse(records)

	if n >= 0 && len(records) > n {
		records = records[:n]
	}

	return records, nil
}

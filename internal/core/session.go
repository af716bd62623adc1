package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// State is a session lifecycle state.
type State int

const (
	StateCreated State = iota
	StateLoaded
	StateReconciled
	StateShutDown
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLoaded:
		return "loaded"
	case StateReconciled:
		return "reconciled"
	case StateShutDown:
		return "shut_down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SessionOptions configures a new Session.
type SessionOptions struct {
	// Logger receives structured session logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Out is the operator-facing channel for the shutdown summary.
	// Defaults to io.Discard.
	Out io.Writer
}

// Session manages one inventory audit: load, count, reconcile, export.
//
// The lifecycle is Created -> Loaded -> Reconciled -> ShutDown. Counting is
// only allowed while Loaded and Reconcile runs exactly once. A Session is
// not safe for concurrent use.
type Session struct {
	id     string
	store  TableStore
	logger *slog.Logger
	out    io.Writer

	state    State
	source   string
	format   Format
	products *ProductTable

	varianceItems []ProductRecord
	missedItems   []ProductRecord
	counters      Counters

	// summaryShown is set once the variance summary reached out.
	summaryShown bool
}

// NewSession creates a session in the Created state.
func NewSession(store TableStore, opts SessionOptions) *Session {
	id := uuid.NewString()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	return &Session{
		id:     id,
		store:  store,
		logger: logger.With("session_id", id),
		out:    out,
		state:  StateCreated,
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Format returns the format detected at load; exports use the same format.
func (s *Session) Format() Format {
	return s.format
}

// Source returns the path the table was loaded from.
func (s *Session) Source() string {
	return s.source
}

// Initialize loads the product table from sourcePath and resets the derived
// sets and counters.
func (s *Session) Initialize(sourcePath string) error {
	if s.state != StateCreated {
		return stateError("initialize", s.state)
	}

	rows, format, err := s.store.Load(sourcePath)
	if err != nil {
		var impErr *ImportError
		if !errors.As(err, &impErr) {
			err = &ImportError{Path: sourcePath, Err: err}
		}
		s.logger.Error("import failed", "path", sourcePath, "error", err)
		return err
	}

	s.products = NewProductTable(rows)
	s.format = format
	s.source = sourcePath
	s.varianceItems = []ProductRecord{}
	s.missedItems = []ProductRecord{}
	s.counters = Counters{}
	s.state = StateLoaded

	s.logger.Info("product table loaded",
		"path", sourcePath,
		"format", format,
		"rows", s.products.Len(),
	)
	if dups := s.products.DuplicateSKUs(); len(dups) > 0 {
		s.logger.Warn("duplicate SKUs in product table; lookups use the first row",
			"count", len(dups),
			"skus", strings.Join(dups, ","),
		)
	}
	return nil
}

// FindBySKU returns a copy of the first record whose SKU equals sku.
func (s *Session) FindBySKU(sku string) (ProductRecord, error) {
	if s.products == nil {
		return ProductRecord{}, stateError("find", s.state)
	}
	s.logger.Debug("getting product", "sku", sku)

	rec, err := s.products.Find(sku)
	if err != nil {
		s.logger.Error("product not found", "sku", sku)
		return ProductRecord{}, err
	}
	return rec, nil
}

// SetCount sets Counted to value.
func (s *Session) SetCount(sku string, value int) error {
	return s.mutate("set_count", sku, func(r *ProductRecord) {
		r.Counted = value
	})
}

// IncreaseCount sets Counted to delta + Counted. A negative delta lowers it.
func (s *Session) IncreaseCount(sku string, delta int) error {
	return s.mutate("increase_count", sku, func(r *ProductRecord) {
		r.Counted = delta + r.Counted
	})
}

// DecreaseCount sets Counted to delta - Counted.
//
// This is not Counted - delta. Receipt entry depends on this operand order.
func (s *Session) DecreaseCount(sku string, delta int) error {
	return s.mutate("decrease_count", sku, func(r *ProductRecord) {
		r.Counted = delta - r.Counted
	})
}

func (s *Session) mutate(op, sku string, fn func(r *ProductRecord)) error {
	if s.state != StateLoaded {
		return stateError(op, s.state)
	}

	before, after, err := s.products.update(sku, fn)
	if err != nil {
		s.logger.Error("product not found", "op", op, "sku", sku)
		return err
	}

	s.logger.Info("updating product", "op", op, "sku", sku, "old_counted", before, "counted", after)
	return nil
}

// RemoveProduct deletes every row with the given SKU and returns how many
// were removed.
//
// Discouraged: a removed row disappears from reconciliation and export.
// Prefer SetCount(sku, 0) to record a product as missing.
func (s *Session) RemoveProduct(sku string) (int, error) {
	if s.state != StateLoaded {
		return 0, stateError("remove_product", s.state)
	}

	n := s.products.Remove(sku)
	s.logger.Warn("product removed from session", "sku", sku, "rows", n)
	return n, nil
}

// Reconcile computes Variance for every row, appends AuditNote to Notes and
// classifies rows into the variance and missed sets.
//
// A row is a variance item when Counted - InStock > 0 and a missed item when
// Counted == 0. The derived sets hold copies taken after Variance and Notes
// are written. Reconcile runs once per session; a second call fails with
// ErrSessionState instead of double counting.
func (s *Session) Reconcile() (Counters, error) {
	if s.state != StateLoaded {
		return s.counters, stateError("reconcile", s.state)
	}

	for i := range s.products.rows {
		row := &s.products.rows[i]
		row.Variance = row.Counted - row.InStock
		if row.Notes != "" {
			row.Notes = row.Notes + " " + AuditNote
		} else {
			row.Notes = AuditNote
		}

		if row.Variance > 0 {
			s.counters.Variance++
			s.varianceItems = append(s.varianceItems, *row)
		}
		if row.Counted == 0 {
			s.counters.Missed++
			s.missedItems = append(s.missedItems, *row)
		}
	}
	s.state = StateReconciled

	s.logger.Info("session data parsed",
		"variance", s.counters.Variance,
		"missed", s.counters.Missed,
	)
	return s.counters, nil
}

// Shutdown reconciles (if not already done), prints the variance summary to
// the operator channel once per session and exports the variance items into dir, using the
// format the table was loaded in.
//
// On success the returned Outcome asks the caller to terminate with exit
// code 0 and the session is ShutDown. An export failure returns an
// *ExportError, leaves the session Reconciled and does not ask for
// termination, so Shutdown may be retried.
func (s *Session) Shutdown(dir string) (Outcome, error) {
	s.logger.Info("shutting down session")

	switch s.state {
	case StateLoaded:
		if _, err := s.Reconcile(); err != nil {
			return Outcome{}, err
		}
	case StateReconciled:
	default:
		return Outcome{}, stateError("shutdown", s.state)
	}

	outcome := Outcome{
		VarianceCount: s.counters.Variance,
		MissedCount:   s.counters.Missed,
	}

	if s.counters.Variance > 0 && !s.summaryShown {
		if err := WriteSummary(s.out, s.counters.Variance, s.varianceItems); err != nil {
			s.logger.Warn("failed to write variance summary", "error", err)
		}
		s.summaryShown = true
		s.logger.Info("items have a variance", "count", s.counters.Variance)
	}

	path, err := s.store.Save(s.format, dir, s.varianceItems)
	if err != nil {
		var expErr *ExportError
		if !errors.As(err, &expErr) {
			err = &ExportError{Format: s.format, Dir: dir, Err: err}
		}
		s.logger.Error("export failed", "dir", dir, "error", err)
		return outcome, err
	}

	fmt.Fprintf(s.out, "Exported to: %s\n", path)
	s.logger.Info("variance items exported", "path", path, "rows", len(s.varianceItems))

	s.state = StateShutDown
	outcome.Terminate = true
	outcome.ExitCode = 0
	outcome.ExportPath = path
	return outcome, nil
}

// Products returns a copy of the product table.
func (s *Session) Products() []ProductRecord {
	if s.products == nil {
		return nil
	}
	return s.products.Rows()
}

// VarianceItems returns a copy of the rows classified as variance items.
func (s *Session) VarianceItems() []ProductRecord {
	return append([]ProductRecord(nil), s.varianceItems...)
}

// MissedItems returns a copy of the rows classified as missed items.
func (s *Session) MissedItems() []ProductRecord {
	return append([]ProductRecord(nil), s.missedItems...)
}

// Counters returns the current reconciliation tallies.
func (s *Session) Counters() Counters {
	return s.counters
}

// DuplicateSKUs lists SKUs that appear on more than one row.
func (s *Session) DuplicateSKUs() []string {
	if s.products == nil {
		return nil
	}
	return s.products.DuplicateSKUs()
}

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/stockaudit/internal/core"
	"github.com/JonMunkholm/stockaudit/internal/logging"
)

// SessionInfo describes the session for GET /api/session.
type SessionInfo struct {
	ID            string        `json:"id"`
	State         string        `json:"state"`
	Source        string        `json:"source"`
	Format        core.Format   `json:"format"`
	Products      int           `json:"products"`
	DuplicateSKUs []string      `json:"duplicateSkus"`
	Counters      core.Counters `json:"counters"`
}

// Report is the reconciliation result for GET /api/report.
type Report struct {
	State         string               `json:"state"`
	Counters      core.Counters        `json:"counters"`
	VarianceItems []core.ProductRecord `json:"varianceItems"`
	MissedItems   []core.ProductRecord `json:"missedItems"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, errBadRequest)...)
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

func skuParam(r *http.Request) (string, error) {
	sku := strings.TrimSpace(chi.URLParam(r, "sku"))
	if sku == "" {
		return "", badRequest("missing sku")
	}
	return sku, nil
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var info SessionInfo
	_ = s.withSession(func(sess *core.Session) error {
		info = SessionInfo{
			ID:            sess.ID(),
			State:         sess.State().String(),
			Source:        sess.Source(),
			Format:        sess.Format(),
			Products:      len(sess.Products()),
			DuplicateSKUs: sess.DuplicateSKUs(),
			Counters:      sess.Counters(),
		}
		return nil
	})
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	var rows []core.ProductRecord
	_ = s.withSession(func(sess *core.Session) error {
		rows = sess.Products()
		return nil
	})
	if rows == nil {
		rows = []core.ProductRecord{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	sku, err := skuParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var rec core.ProductRecord
	err = s.withSession(func(sess *core.Session) error {
		rec, err = sess.FindBySKU(sku)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// countRequest is the body of the count endpoints. Value is used by /count,
// Delta by /increase and /decrease.
type countRequest struct {
	Value *int `json:"value,omitempty"`
	Delta *int `json:"delta,omitempty"`
}

func (s *Server) handleSetCount(w http.ResponseWriter, r *http.Request) {
	s.handleCount(w, r, "value", func(sess *core.Session, sku string, n int) error {
		return sess.SetCount(sku, n)
	})
}

func (s *Server) handleIncreaseCount(w http.ResponseWriter, r *http.Request) {
	s.handleCount(w, r, "delta", func(sess *core.Session, sku string, n int) error {
		return sess.IncreaseCount(sku, n)
	})
}

func (s *Server) handleDecreaseCount(w http.ResponseWriter, r *http.Request) {
	s.handleCount(w, r, "delta", func(sess *core.Session, sku string, n int) error {
		return sess.DecreaseCount(sku, n)
	})
}

// handleCount applies a count mutation and responds with the updated row.
func (s *Server) handleCount(w http.ResponseWriter, r *http.Request, field string, apply func(*core.Session, string, int) error) {
	sku, err := skuParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req countRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	n := req.Value
	if field == "delta" {
		n = req.Delta
	}
	if n == nil {
		respondError(w, r, badRequest("missing %q", field))
		return
	}

	var rec core.ProductRecord
	err = s.withSession(func(sess *core.Session) error {
		if err := apply(sess, sku, *n); err != nil {
			return err
		}
		rec, err = sess.FindBySKU(sku)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "sku", sku).Debug("count updated via api", "counted", rec.Counted)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	sku, err := skuParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var removed int
	err = s.withSession(func(sess *core.Session) error {
		removed, err = sess.RemoveProduct(sku)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sku": sku, "removed": removed})
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var counters core.Counters
	err := s.withSession(func(sess *core.Session) error {
		var err error
		counters, err = sess.Reconcile()
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counters)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var rep Report
	_ = s.withSession(func(sess *core.Session) error {
		rep = Report{
			State:         sess.State().String(),
			Counters:      sess.Counters(),
			VarianceItems: sess.VarianceItems(),
			MissedItems:   sess.MissedItems(),
		}
		return nil
	})
	if rep.VarianceItems == nil {
		rep.VarianceItems = []core.ProductRecord{}
	}
	if rep.MissedItems == nil {
		rep.MissedItems = []core.ProductRecord{}
	}
	writeJSON(w, http.StatusOK, rep)
}

// shutdownRequest optionally overrides the export directory.
type shutdownRequest struct {
	Dir *string `json:"dir,omitempty"`
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	var req shutdownRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	}
	dir := s.exportDir
	if req.Dir != nil {
		dir = *req.Dir
	}

	outcome, err := s.shutdownSession(dir)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// shutdownSession finishes the audit and signals Done on success.
func (s *Server) shutdownSession(dir string) (core.Outcome, error) {
	var outcome core.Outcome
	err := s.withSession(func(sess *core.Session) error {
		var err error
		outcome, err = sess.Shutdown(dir)
		return err
	})
	if err != nil {
		return outcome, err
	}
	s.finish(outcome)
	return outcome, nil
}

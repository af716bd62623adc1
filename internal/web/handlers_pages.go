package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/stockaudit/internal/core"
	"github.com/JonMunkholm/stockaudit/internal/web/templates"
)

// handleDashboard renders the session overview.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var data templates.DashboardData
	_ = s.withSession(func(sess *core.Session) error {
		data = templates.DashboardData{
			SessionID:  sess.ID(),
			Source:     sess.Source(),
			State:      sess.State(),
			Products:   sess.Products(),
			Counters:   sess.Counters(),
			Duplicates: sess.DuplicateSKUs(),
			ExportDir:  s.exportDir,
		}
		return nil
	})
	data.Flash = r.URL.Query().Get("msg")
	data.FlashError = r.URL.Query().Get("err") == "1"

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(data).Render(r.Context(), w); err != nil {
		respondError(w, r, err)
	}
}

// handleCountForm applies the count form. mode is set, increase or decrease.
func (s *Server) handleCountForm(w http.ResponseWriter, r *http.Request) {
	sku := strings.TrimSpace(r.FormValue("sku"))
	rawQty := strings.TrimSpace(r.FormValue("qty"))
	qty, convErr := core.ParseQuantity(rawQty)
	if sku == "" || rawQty == "" || convErr != nil {
		redirectWithFlash(w, r, "Enter a SKU and a whole-number quantity.", true)
		return
	}

	err := s.withSession(func(sess *core.Session) error {
		switch r.FormValue("mode") {
		case "increase":
			return sess.IncreaseCount(sku, qty)
		case "decrease":
			return sess.DecreaseCount(sku, qty)
		case "set", "":
			return sess.SetCount(sku, qty)
		default:
			return errors.New("unknown count mode")
		}
	})
	if err != nil {
		redirectWithFlash(w, r, core.FormatUserError(err), true)
		return
	}
	redirectWithFlash(w, r, "Updated "+sku+".", false)
}

// handleRemoveForm removes every row with the submitted SKU.
func (s *Server) handleRemoveForm(w http.ResponseWriter, r *http.Request) {
	sku := strings.TrimSpace(r.FormValue("sku"))
	if sku == "" {
		redirectWithFlash(w, r, "Enter a SKU.", true)
		return
	}

	var removed int
	err := s.withSession(func(sess *core.Session) error {
		var err error
		removed, err = sess.RemoveProduct(sku)
		return err
	})
	if err != nil {
		redirectWithFlash(w, r, core.FormatUserError(err), true)
		return
	}
	redirectWithFlash(w, r, "Removed "+strconv.Itoa(removed)+" row(s) for "+sku+".", false)
}

// handleFinishForm reconciles and exports the audit.
func (s *Server) handleFinishForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "Could not read the form.", true)
		return
	}
	dir := s.exportDir
	if _, ok := r.PostForm["dir"]; ok {
		dir = strings.TrimSpace(r.PostForm.Get("dir"))
	}

	outcome, err := s.shutdownSession(dir)
	if err != nil {
		redirectWithFlash(w, r, core.FormatUserError(err), true)
		return
	}
	redirectWithFlash(w, r, "Audit finished. Exported to "+outcome.ExportPath+".", false)
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, msg string, isErr bool) {
	q := url.Values{"msg": {msg}}
	if isErr {
		q.Set("err", "1")
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

package panel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ksyq12/dottux/internal/domain"
	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/lifecycle"
	"github.com/ksyq12/dottux/internal/logger"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Backend:    s.opts.Backend.String(),
		ListenPort: s.opts.ListenPort,
		Flash:      flashFromQuery(r.URL.Query()),
	}

	domains, err := s.svc.List(s.opts.Backend)
	if err != nil {
		logger.LogError(err, "Listing domains failed")
		data.ListError = "CRITICAL: " + err.Error()
	}
	data.Domains = domains

	var buf bytes.Buffer
	if err := renderIndex(&buf, data); err != nil {
		logger.LogError(err, "Rendering index failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	prefix := r.PostFormValue("domain")

	report, err := s.svc.Add(r.Context(), prefix, s.opts.Backend)
	if err != nil {
		s.redirect(w, r, FlashDanger, s.messageFor(err, prefix, false))
		return
	}
	s.redirectReport(w, r, fmt.Sprintf("Domain '%s' added.", report.Result.Domain), report)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")

	report, err := s.svc.Remove(r.Context(), name, s.opts.Backend)
	if err != nil {
		s.redirect(w, r, FlashDanger, s.messageFor(err, name, true))
		return
	}
	msg := fmt.Sprintf("Domain '%s' removed.", report.Result.Domain)
	for _, warning := range report.Result.Warnings {
		msg += " Warning: " + warning + "."
	}
	s.redirectReport(w, r, msg, report)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.redirectReport(w, r, "", s.svc.Reconcile(r.Context()))
}

type healthzResponse struct {
	Status        string  `json:"status"`
	Backend       string  `json:"backend"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthzResponse{
		Status:        "ok",
		Backend:       s.opts.Backend.String(),
		UptimeSeconds: time.Since(s.started).Seconds(),
	})
}

// redirectReport flashes the outcome of the reload that followed a change
func (s *Server) redirectReport(w http.ResponseWriter, r *http.Request, prefix string, report *lifecycle.Report) {
	if err := report.Err(); err != nil {
		msg := fmt.Sprintf("%s reload failed! Config may be broken. Error: %v", s.opts.Backend, err)
		if prefix != "" {
			msg = prefix + " " + msg
		}
		s.redirect(w, r, FlashDanger, msg)
		return
	}
	msg := fmt.Sprintf("%s reloaded successfully.", s.opts.Backend)
	if prefix != "" {
		msg = prefix + " " + msg
	}
	s.redirect(w, r, FlashSuccess, msg)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, kind, message string) {
	http.Redirect(w, r, flashURL(kind, message), http.StatusSeeOther)
}

// messageFor turns a lifecycle error into the operator-facing flash text
func (s *Server) messageFor(err error, input string, removing bool) string {
	switch tuxerrors.CodeOf(err) {
	case tuxerrors.ErrCodeInvalidDomainName:
		return "Invalid domain name. Use only letters, numbers, and hyphens."
	case tuxerrors.ErrCodeDuplicateDomain:
		return fmt.Sprintf("Domain '%s' already exists.", fullName(input))
	case tuxerrors.ErrCodeReservedDomain:
		if removing {
			return "Cannot delete the control panel domain."
		}
		return fmt.Sprintf("Domain '%s' is reserved for the control panel.", fullName(input))
	case tuxerrors.ErrCodeDomainNotFound:
		return fmt.Sprintf("Domain '%s' not found.", input)
	default:
		return err.Error()
	}
}

// fullName shows what an add of prefix would be called
func fullName(prefix string) string {
	if d, err := domain.FromPrefix(prefix); err == nil {
		return d.String()
	}
	return prefix
}

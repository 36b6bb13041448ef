package http

import (
	"fmt"
	"net/http"
	"strings"

	"bizledger/internal/domain/report"
	"bizledger/internal/shared/apperror"
)

// ReportHandler serves the income statement and the dashboard summary.
type ReportHandler struct {
	service  *report.Service
	currency string
}

func NewReportHandler(service *report.Service, currency string) *ReportHandler {
	return &ReportHandler{service: service, currency: currency}
}

// HandleReport builds the report for ?period= (or ?period=custom&start=&end=)
// and renders it as JSON, CSV or plain text according to ?format=.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	format := strings.ToLower(q.Get("format"))
	switch format {
	case "", "json", "csv", "text":
	default:
		writeError(w, r, apperror.Validation("report.format", fmt.Errorf("unsupported format %q", format)))
		return
	}

	token := q.Get("period")
	period, err := h.service.Resolve(token, q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	rep, err := h.service.Build(r.Context(), biz.ID, period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch format {
	case "csv":
		body, err := report.FormatCSV(rep)
		if err != nil {
			writeError(w, r, apperror.Store("report.FormatCSV", err))
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(token)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.FormatText(rep, h.currency)))
	default:
		writeJSON(w, http.StatusOK, rep)
	}
}

func (h *ReportHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	rep, err := h.service.Dashboard(r.Context(), biz.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func reportFilename(token string) string {
	if token == "" {
		token = report.PeriodThisMonth
	}
	return "report-" + token + ".csv"
}

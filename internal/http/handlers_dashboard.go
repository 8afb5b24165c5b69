package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month.
func (s *Server) parseYearMonth(r *http.Request) (year, month int) {
	now := s.now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	return year, month
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, month := s.parseYearMonth(r)
	ref := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	summary := s.svc.Summary(ref)
	out := dashboardResponse{
		Year:                summary.Year,
		Month:               summary.Month,
		TotalIncome:         summary.TotalIncome.Cents,
		TotalExpenses:       summary.TotalExpenses.Cents,
		TotalMonthly:        summary.TotalMonthly.Cents,
		PaidMonthly:         summary.PaidMonthly.Cents,
		PendingMonthly:      summary.PendingMonthly.Cents,
		PaymentProgressPct:  summary.PaymentProgressPct,
		IncomeCommitmentPct: summary.IncomeCommitmentPct,
		HighCommitment:      summary.HighCommitment,
		ByCategory:          make([]categoryShareResponse, 0, len(summary.ByCategory)),
		Window:              s.toExpenseResponses(s.svc.Window(ref)),
	}
	for _, share := range summary.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryShareResponse{
			Tag:     string(share.Tag),
			Label:   share.Label,
			Cents:   share.Amount.Cents,
			Percent: share.Percent,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	batch, err := req.toBatch()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := s.svc.Reconcile(r.Context(), s.now(), batch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toReconcileResponse(result))
}

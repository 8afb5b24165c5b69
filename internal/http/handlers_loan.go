package http

import (
	"net/http"

	"hogar/internal/core"
)

func (s *Server) handleAddLoan(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loan, err := req.toLoan(0)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := s.svc.AddLoan(r.Context(), memberID, loan)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLoanResponse(created))
}

func (s *Server) handleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loanID, err := pathID(r, "loanID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loan, err := req.toLoan(loanID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	updated, err := s.svc.UpdateLoan(r.Context(), memberID, loan)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLoanResponse(updated))
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loanID, err := pathID(r, "loanID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.DeleteLoan(r.Context(), memberID, loanID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLoanEstimate computes the monthly installment for a prospective loan
// without touching the ledger.
func (s *Server) handleLoanEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	principal, err := parseAmount(req.Principal)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	installment, err := core.MonthlyInstallment(principal, req.RatePercent, core.RateType(req.RateType), req.TermMonths)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimateResponse{
		InstallmentCents: installment.Cents,
		TermMonths:       req.TermMonths,
		TotalCents:       installment.Cents * int64(req.TermMonths),
	})
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"hogar/internal/core"
	"hogar/internal/ledger"
	"hogar/internal/ocr"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeDomainError maps domain errors onto HTTP status codes. Anything not
// recognized is treated as a validation failure rather than a server fault:
// the ledger only returns errors it minted itself.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrMemberNotFound),
		errors.Is(err, ledger.ErrExpenseNotFound),
		errors.Is(err, ledger.ErrIncomeNotFound),
		errors.Is(err, ledger.ErrCardNotFound),
		errors.Is(err, ledger.ErrLoanNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrLastMember),
		errors.Is(err, ledger.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrNotComputable):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ocr.ErrUnreadable):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		var se *ocr.ServiceError
		if errors.As(err, &se) {
			writeError(w, http.StatusBadGateway, se.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

package http

import (
	"io"
	"net/http"
	"strconv"

	"hogar/internal/log"
	"hogar/internal/ocr"
)

// maxImageBytes caps invoice uploads at 10 MiB.
const maxImageBytes = 10 << 20

// handleOCR sends an invoice photo to the extraction service and returns a
// draft expense. Nothing is written to the ledger; the caller reviews the
// draft and submits it through the normal create endpoint.
func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	if s.ocrClient == nil {
		writeError(w, http.StatusServiceUnavailable, "ocr service not configured")
		return
	}

	image, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read image: "+err.Error())
		return
	}
	if len(image) == 0 {
		writeError(w, http.StatusBadRequest, "empty image")
		return
	}
	if len(image) > maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image exceeds 10 MiB")
		return
	}

	responsibleID := int64(0)
	if v := r.URL.Query().Get("responsible_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			responsibleID = id
		}
	}

	suggestion, err := s.ocrClient.Extract(r.Context(), image)
	if err != nil {
		s.logger.WarnContext(r.Context(), "ocr extraction failed",
			log.FieldOperation, log.OpExtract, log.FieldError, err)
		writeDomainError(w, err)
		return
	}

	draft := ocr.Draft(suggestion, responsibleID, s.now())
	writeJSON(w, http.StatusOK, s.toExpenseResponse(draft))
}

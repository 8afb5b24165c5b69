package http

import (
	"net/http"

	"hogar/internal/core"
)

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members := s.svc.Members()
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := s.svc.AddMember(r.Context(), req.Name, req.Email, core.Role(req.Role))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberResponse(m))
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := s.svc.UpdateMember(r.Context(), id, req.Name, req.Email, core.Role(req.Role))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(m))
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.DeleteMember(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMemberBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, b := range s.svc.Balances() {
		if b.MemberID == id {
			writeJSON(w, http.StatusOK, balanceResponse{
				MemberID:   b.MemberID,
				Name:       b.Name,
				Income:     b.Income.Cents,
				Expenses:   b.Expenses.Cents,
				Balance:    b.Balance.Cents,
				OverBudget: b.OverBudget,
			})
			return
		}
	}
	writeError(w, http.StatusNotFound, "member not found")
}

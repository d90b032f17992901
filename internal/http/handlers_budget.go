package http

import (
	"net/http"
)

func (s *Server) handleCreateBudgetItem(w http.ResponseWriter, r *http.Request) {
	var body budgetItemJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	body.Active = true
	b, err := body.toDomain(s.userID(r))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.budget.Create(r.Context(), b)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.invalidateUserReports(created.UserID)
	writeJSON(w, http.StatusCreated, toBudgetItemJSON(created))
}

func (s *Server) handleListBudgetItems(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	items, err := s.budget.List(r.Context(), s.userID(r), activeOnly)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]budgetItemJSON, 0, len(items))
	for _, b := range items {
		out = append(out, toBudgetItemJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBudgetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := s.budget.Get(r.Context(), id, s.userID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "budget item not found")
		return
	}
	writeJSON(w, http.StatusOK, toBudgetItemJSON(*b))
}

func (s *Server) handleUpdateBudgetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body budgetItemJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	body.ID = id
	b, err := body.toDomain(s.userID(r))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	updated, err := s.budget.Update(r.Context(), b)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "budget item not found")
		return
	}
	s.invalidateUserReports(updated.UserID)
	writeJSON(w, http.StatusOK, toBudgetItemJSON(*updated))
}

// handleDeactivateBudgetItem retires a budget item. Deactivated items drop
// out of future recomputes but keep their history.
func (s *Server) handleDeactivateBudgetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := s.budget.Deactivate(r.Context(), id, s.userID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "budget item not found")
		return
	}
	s.invalidateUserReports(b.UserID)
	writeJSON(w, http.StatusOK, toBudgetItemJSON(*b))
}

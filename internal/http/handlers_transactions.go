package http

import (
	"fmt"
	"net/http"
	"strconv"

	"budgetbook/internal/services"
	"budgetbook/internal/storage"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := body.toDomain(s.userID(r))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.transactions.Create(r.Context(), t)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.invalidateUserReports(created.UserID)
	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := s.transactions.List(r.Context(), s.userID(r), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]transactionJSON, 0, len(items))
	for _, t := range items {
		out = append(out, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func transactionFilterFromQuery(r *http.Request) (storage.TransactionFilter, error) {
	var filter storage.TransactionFilter
	var err error

	if filter.Start, err = queryDate(r, "start_date"); err != nil {
		return filter, err
	}
	if filter.End, err = queryDate(r, "end_date"); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = queryInt64(r, "category_id"); err != nil {
		return filter, err
	}
	if filter.AccountID, err = queryInt64(r, "account_id"); err != nil {
		return filter, err
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return filter, fmt.Errorf("invalid limit %q", v)
		}
		filter.Limit = limit
	}
	return filter, nil
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.transactions.Get(r.Context(), id, s.userID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(*t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body transactionJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	body.ID = id
	t, err := body.toDomain(s.userID(r))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	updated, err := s.transactions.Update(r.Context(), t)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	s.invalidateUserReports(updated.UserID)
	writeJSON(w, http.StatusOK, toTransactionJSON(*updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ok, err := s.transactions.Delete(r.Context(), id, s.userID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	s.invalidateUserReports(s.userID(r))
	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Imported int               `json:"imported"`
	Errors   []importErrorJSON `json:"errors"`
}

type importErrorJSON struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// handleImportTransactions accepts CSV data in the request body. Valid rows
// are applied even when others fail; per-row failures come back in the
// response instead of aborting the import.
func (s *Server) handleImportTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, err := queryInt64(r, "account_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.transactions.ImportCSV(r.Context(), r.Body, s.userID(r), accountID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if result.Imported > 0 {
		s.invalidateUserReports(s.userID(r))
	}
	writeJSON(w, http.StatusOK, toImportResponse(result))
}

func toImportResponse(result services.ImportResult) importResponse {
	resp := importResponse{
		Imported: result.Imported,
		Errors:   make([]importErrorJSON, 0, len(result.Errors)),
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, importErrorJSON{Row: e.Row, Error: e.Err})
	}
	return resp
}

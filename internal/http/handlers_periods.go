package http

import (
	"net/http"
)

func (s *Server) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	var body periodJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := body.toDomain(s.userID(r))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.periods.Create(r.Context(), p)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPeriodJSON(created))
}

func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.periods.List(r.Context(), s.userID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]periodJSON, 0, len(periods))
	for _, p := range periods {
		out = append(out, toPeriodJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.periods.Get(r.Context(), id, s.userID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "period not found")
		return
	}
	writeJSON(w, http.StatusOK, toPeriodJSON(*p))
}

func (s *Server) handleUpdatePeriod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body periodJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	body.ID = id
	userID := s.userID(r)
	p, err := body.toDomain(userID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	updated, err := s.periods.Update(r.Context(), p)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "period not found")
		return
	}
	s.invalidateReports(userID, id)
	writeJSON(w, http.StatusOK, toPeriodJSON(*updated))
}

func (s *Server) handleDeletePeriod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := s.userID(r)
	ok, err := s.periods.Delete(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "period not found")
		return
	}
	s.invalidateReports(userID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecomputePeriod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := s.userID(r)
	rows, err := s.recomputer.RecomputePeriod(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if rows == nil {
		writeError(w, http.StatusNotFound, "period not found")
		return
	}
	s.invalidateReports(userID, id)
	writeJSON(w, http.StatusOK, toAnalysisRowsJSON(rows))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	drill, err := queryInt64(r, "category_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := s.userID(r)

	period, err := s.periods.Get(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if period == nil {
		writeError(w, http.StatusNotFound, "period not found")
		return
	}

	key := s.reportCacheKey(userID, id, drill)
	if rows, ok := s.reportCache.Get(key); ok {
		writeJSON(w, http.StatusOK, toDisplayRowsJSON(rows))
		return
	}

	rows, err := s.reporter.ReportByCategory(r.Context(), id, userID, drill)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.reportCache.Set(key, rows)
	writeJSON(w, http.StatusOK, toDisplayRowsJSON(rows))
}

// handleExportReport pushes the period's roll-up report to the configured
// spreadsheet.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export not configured")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := s.userID(r)

	period, err := s.periods.Get(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if period == nil {
		writeError(w, http.StatusNotFound, "period not found")
		return
	}

	rows, err := s.reporter.ReportByCategory(r.Context(), id, userID, nil)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	ref, err := s.exporter.ExportReport(r.Context(), *period, rows)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ref": ref, "rows": len(rows)})
}

package httpapi

import (
	"net/http"

	"playpartner-backend-go/internal/services"
)

func (s *Server) ListAssessments(w http.ResponseWriter, r *http.Request) {
	items, err := s.Store.ListAssessments(r.Context())
	if err != nil {
		s.writeFailure(w, r, "list assessments", err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) ListPartnerAssessments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	items, err := s.Store.ListPartnerAssessments(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, "list partner assessments", err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req services.AssessmentInput
	if !decodeJSON(w, r, &req) {
		return
	}
	row, err := s.Store.CreateAssessment(r.Context(), req)
	if err != nil {
		s.writeFailure(w, r, "create assessment", err)
		return
	}
	s.Events.Publish(services.KindAssessment, services.ActionCreated, row.ID)
	WriteJSON(w, http.StatusCreated, row)
}

func (s *Server) ExportAssessmentsCSV(w http.ResponseWriter, r *http.Request) {
	items, err := s.Store.ListAssessments(r.Context())
	if err != nil {
		s.writeFailure(w, r, "export assessments", err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", services.ExportFilename("assessments", "csv", s.Now()), services.AssessmentsCSV(items))
}

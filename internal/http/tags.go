package httpapi

import (
	"net/http"

	"playpartner-backend-go/internal/services"
)

func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.Store.ListTags(r.Context())
	if err != nil {
		s.writeFailure(w, r, "list tags", err)
		return
	}
	WriteJSON(w, http.StatusOK, tags)
}

func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req services.TagInput
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := s.Store.CreateTag(r.Context(), req)
	if err != nil {
		s.writeFailure(w, r, "create tag", err)
		return
	}
	s.Events.Publish(services.KindTag, services.ActionCreated, tag.ID)
	WriteJSON(w, http.StatusCreated, tag)
}

func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	if err := s.Store.DeleteTag(r.Context(), id); err != nil {
		s.writeFailure(w, r, "delete tag", err)
		return
	}
	s.Events.Publish(services.KindTag, services.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

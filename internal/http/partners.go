package httpapi

import (
	"net/http"

	"playpartner-backend-go/internal/services"
)

func (s *Server) ListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.Store.ListPartners(r.Context())
	if err != nil {
		s.writeFailure(w, r, "list partners", err)
		return
	}
	WriteJSON(w, http.StatusOK, partners)
}

func (s *Server) GetPartner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	partner, err := s.Store.GetPartner(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, "get partner", err)
		return
	}
	WriteJSON(w, http.StatusOK, partner)
}

func (s *Server) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req services.PartnerInput
	if !decodeJSON(w, r, &req) {
		return
	}
	partner, err := s.Store.CreatePartner(r.Context(), req)
	if err != nil {
		s.writeFailure(w, r, "create partner", err)
		return
	}
	s.Events.Publish(services.KindPartner, services.ActionCreated, partner.ID)
	WriteJSON(w, http.StatusCreated, partner)
}

func (s *Server) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req services.PartnerPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	partner, err := s.Store.UpdatePartner(r.Context(), id, req)
	if err != nil {
		s.writeFailure(w, r, "update partner", err)
		return
	}
	s.Events.Publish(services.KindPartner, services.ActionUpdated, partner.ID)
	WriteJSON(w, http.StatusOK, partner)
}

// DeletePartner removes the partner with its child rows and any photos
// stored on local disk.
func (s *Server) DeletePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	media, err := s.Store.ListMedia(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, "delete partner", err)
		return
	}
	if err := s.Store.DeletePartner(r.Context(), id); err != nil {
		s.writeFailure(w, r, "delete partner", err)
		return
	}
	for _, item := range media {
		s.Media.Remove(item.PhotoFaceURL, item.PhotoBodyURL)
	}
	s.Events.Publish(services.KindPartner, services.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ExportPartnersCSV(w http.ResponseWriter, r *http.Request) {
	partners, err := s.Store.ListPartners(r.Context())
	if err != nil {
		s.writeFailure(w, r, "export partners", err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", services.ExportFilename("partners", "csv", s.Now()), services.PartnersCSV(partners))
}

func (s *Server) ExportPartnersXLSX(w http.ResponseWriter, r *http.Request) {
	partners, err := s.Store.ListPartners(r.Context())
	if err != nil {
		s.writeFailure(w, r, "export partners xlsx", err)
		return
	}
	body, err := services.PartnersXLSX(partners)
	if err != nil {
		s.writeFailure(w, r, "export partners xlsx", err)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		services.ExportFilename("partners", "xlsx", s.Now()), body)
}

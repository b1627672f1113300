package httpapi

import "net/http"

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.Store.Dashboard(r.Context())
	if err != nil {
		s.writeFailure(w, r, "dashboard", err)
		return
	}
	s.Metrics.ObserveDashboard(dashboard)
	WriteJSON(w, http.StatusOK, dashboard)
}

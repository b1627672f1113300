package httpapi

import (
	"net/http"

	"playpartner-backend-go/internal/services"
)

type SystemResponse struct {
	services.SystemSample
	EventSubscribers int `json:"eventSubscribers"`
}

// SystemStats samples host usage on demand; nothing is stored.
func (s *Server) SystemStats(w http.ResponseWriter, r *http.Request) {
	sample := services.CaptureSystemStats(s.Config.MediaDir)
	subscribers := 0
	if s.Events != nil {
		subscribers = s.Events.Len()
	}
	WriteJSON(w, http.StatusOK, SystemResponse{SystemSample: sample, EventSubscribers: subscribers})
}

package httpapi

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"playpartner-backend-go/internal/services"
)

const maxUploadBytes = 25 << 20

func (s *Server) GetIntimacy(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	row, err := s.Store.GetIntimacy(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, "get intimacy", err)
		return
	}
	WriteJSON(w, http.StatusOK, row)
}

func (s *Server) UpsertIntimacy(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req services.IntimacyInput
	if !decodeJSON(w, r, &req) {
		return
	}
	row, err := s.Store.UpsertIntimacy(r.Context(), id, req)
	if err != nil {
		s.writeFailure(w, r, "upsert intimacy", err)
		return
	}
	s.Events.Publish(services.KindIntimacy, services.ActionUpdated, id)
	WriteJSON(w, http.StatusOK, row)
}

func (s *Server) GetLogistics(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	row, err := s.Store.GetLogistics(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, "get logistics", err)
		return
	}
	WriteJSON(w, http.StatusOK, row)
}

func (s *Server) UpsertLogistics(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req services.LogisticsInput
	if !decodeJSON(w, r, &req) {
		return
	}
	row, err := s.Store.UpsertLogistics(r.Context(), id, req)
	if err != nil {
		s.writeFailure(w, r, "upsert logistics", err)
		return
	}
	s.Events.Publish(services.KindLogistics, services.ActionUpdated, id)
	WriteJSON(w, http.StatusOK, row)
}

func (s *Server) ListMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	items, err := s.Store.ListMedia(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, "list media", err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

// CreateMedia accepts either JSON with external photo URLs or a multipart
// upload with "photoFace" and/or "photoBody" image files. Stored-file URLs
// can only come from an upload in the same request.
func (s *Server) CreateMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req services.MediaInput
	var uploaded []*string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		var err error
		req, uploaded, err = s.saveUploadedPhotos(w, r)
		if err != nil {
			s.writeFailure(w, r, "upload media", err)
			return
		}
	} else {
		if !decodeJSON(w, r, &req) {
			return
		}
		if services.IsLocalMediaURL(req.PhotoFaceURL) || services.IsLocalMediaURL(req.PhotoBodyURL) {
			WriteError(w, http.StatusBadRequest, "Stored photos must be uploaded, not linked")
			return
		}
	}
	row, err := s.Store.CreateMedia(r.Context(), id, req)
	if err != nil {
		s.Media.Remove(uploaded...)
		s.writeFailure(w, r, "create media", err)
		return
	}
	s.Events.Publish(services.KindMedia, services.ActionCreated, row.ID)
	WriteJSON(w, http.StatusCreated, row)
}

// saveUploadedPhotos returns the media input and the URLs of the files it
// wrote, which the caller owns until the row is stored.
func (s *Server) saveUploadedPhotos(w http.ResponseWriter, r *http.Request) (services.MediaInput, []*string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return services.MediaInput{}, nil, services.ErrBadRequest("Invalid upload")
	}
	var in services.MediaInput
	var uploaded []*string
	for field, target := range map[string]**string{"photoFace": &in.PhotoFaceURL, "photoBody": &in.PhotoBodyURL} {
		file, _, err := r.FormFile(field)
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			s.Media.Remove(uploaded...)
			return services.MediaInput{}, nil, services.ErrBadRequest("Invalid upload")
		}
		stored, err := s.Media.SavePhoto(file)
		_ = file.Close()
		if err != nil {
			s.Media.Remove(uploaded...)
			return services.MediaInput{}, nil, err
		}
		s.Logger.Info("media stored",
			zap.String("field", field),
			zap.String("key", stored.Key),
			zap.String("content_type", stored.ContentType),
			zap.Int64("size", stored.Size),
			zap.String("sha256", stored.SHA256),
		)
		url := stored.URL
		*target = &url
		uploaded = append(uploaded, &url)
	}
	return in, uploaded, nil
}

func (s *Server) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	row, err := s.Store.DeleteMedia(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, "delete media", err)
		return
	}
	s.Media.Remove(row.PhotoFaceURL, row.PhotoBodyURL)
	s.Events.Publish(services.KindMedia, services.ActionDeleted, row.ID)
	w.WriteHeader(http.StatusNoContent)
}

// MediaFile streams an uploaded photo.
func (s *Server) MediaFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	file, err := s.Media.Open(key)
	if err != nil {
		s.writeFailure(w, r, "open media file", err)
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		s.writeFailure(w, r, "stat media file", err)
		return
	}
	if contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(key))); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, key, info.ModTime(), file)
}

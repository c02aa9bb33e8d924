package bot

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/zombor/invoice-bot/internal/invoice"
)

// maxUploadSize bounds an inbound attachment (25MB)
const maxUploadSize = int64(25 << 20)

type messageResponse struct {
	ID       string          `json:"id"`
	Invoice  *invoice.Record `json:"invoice"`
	Messages []string        `json:"messages"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleMessage accepts a multipart message with a media attachment
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Attachment is too large. Maximum size is 25MB.")
			return
		}
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, http.StatusBadRequest, "No media attachment provided")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading attachment")
		return
	}

	msg := Message{
		ID:       r.FormValue("id"),
		Sender:   r.FormValue("sender"),
		Filename: header.Filename,
		MIMEType: detectContentType(header.Header.Get("Content-Type"), header.Filename, data),
		Data:     data,
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	reply, err := s.service.HandleMedia(r.Context(), msg)
	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, messageResponse{
		ID:       msg.ID,
		Invoice:  reply.Record,
		Messages: reply.Messages,
	})
}

// detectContentType prefers the part header, then the file extension, then
// content sniffing
func detectContentType(partType, filename string, data []byte) string {
	contentType := strings.ToLower(strings.TrimSpace(partType))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return http.DetectContentType(data)
}

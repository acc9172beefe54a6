package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"upload-pipeline/internal/identity"
	"upload-pipeline/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// presignHandler issues a write-scoped upload URL for a single object under
// the upload namespace.
func (a *App) presignHandler(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	fileType := r.URL.Query().Get("fileType")

	if fileName == "" || fileType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing required parameters (fileName or fileType)",
		})
		return
	}

	key := identity.UploadPrefix + fileName
	uploadURL, err := a.Presigner.PresignUpload(r.Context(), key, fileType)
	if err != nil {
		log.Printf("error generating presigned url for %s: %v", key, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to generate presigned URL",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": uploadURL})
}

// statusHandler returns the latest lifecycle record for a file. The fileId
// parameter may be a raw key with the upload prefix still on it.
func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("fileId")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fileId is required"})
		return
	}

	fileID := identity.FileID(raw)
	rec, err := a.Store.Latest(r.Context(), fileID)
	if err != nil {
		log.Printf("error querying status for %s: %v", fileID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Error querying status",
			"message": err.Error(),
		})
		return
	}

	if rec.Status == models.StatusUnknown {
		// Absence of a record is a normal answer, not an error. It means
		// "not processed yet, retry later".
		writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusUnknown})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

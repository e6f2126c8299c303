package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getprecis/precis/pkg/ingest"
	"github.com/getprecis/precis/pkg/models"
)

// PostDocumentHandler extracts text from an uploaded TXT or DOCX file
// and responds with the extracted content and word count. The client
// reviews the text before summarizing it.
func PostDocumentHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := appState.Config.Server.MaxUploadMB << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			renderError(w, fmt.Errorf("failed to parse upload: %w", err), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			renderError(w, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
			return
		}
		defer file.Close()

		document, err := ingest.ReadDocument(file, header.Filename)
		if err != nil {
			if errors.Is(err, models.ErrUnsupportedFormat) {
				renderError(w, err, http.StatusBadRequest)
				return
			}
			renderError(
				w,
				fmt.Errorf("failed to read %s: %w", header.Filename, err),
				http.StatusBadRequest,
			)
			return
		}

		if err := encodeJSON(w, document); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

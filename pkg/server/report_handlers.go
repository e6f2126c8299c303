package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/getprecis/precis/pkg/models"
	"github.com/getprecis/precis/pkg/report"
)

// ReportRequest selects what to render: a stored history entry by UUID,
// or a summary result posted inline.
type ReportRequest struct {
	EntryUUID uuid.UUID             `json:"entry_uuid,omitempty"`
	Result    *models.SummaryResult `json:"result,omitempty"`
}

// PostReportHandler renders a PDF report for a history entry or a
// posted summary result and responds with the document as a download.
func PostReportHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request ReportRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, fmt.Errorf("failed to decode request: %w", err), http.StatusBadRequest)
			return
		}

		result := request.Result
		if request.EntryUUID != uuid.Nil {
			entry, err := appState.HistoryStore.GetEntry(r.Context(), request.EntryUUID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					renderError(w, err, http.StatusNotFound)
					return
				}
				renderError(w, err, http.StatusInternalServerError)
				return
			}
			result = entry
		}

		if result == nil {
			renderError(
				w,
				errors.New("provide an entry_uuid or a result to report on"),
				http.StatusBadRequest,
			)
			return
		}

		pdfBytes, err := report.GeneratePDF(result)
		if err != nil {
			renderError(w, fmt.Errorf("failed to render report: %w", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set(
			"Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", report.Filename(time.Now())),
		)
		if _, err := w.Write(pdfBytes); err != nil {
			log.Errorf("failed to write report response: %v", err)
		}
	}
}

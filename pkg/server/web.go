package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/getprecis/precis/config"
	"github.com/getprecis/precis/pkg/models"
)

//go:embed templates/*
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	Version     string
	MaxUploadMB int64
}

// IndexHandler serves the minimal landing page describing the API.
func IndexHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := indexData{
			Version:     config.VersionString,
			MaxUploadMB: appState.Config.Server.MaxUploadMB,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, data); err != nil {
			log.Errorf("failed to render index page: %v", err)
		}
	}
}

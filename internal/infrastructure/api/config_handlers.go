package api

import (
	"net/http"

	"skyutilities-dashboard/internal/application"
	"skyutilities-dashboard/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// mountConfigRoutes registers the read/upsert/clear routes of one config domain on the /api router
func mountConfigRoutes[T domain.GuildConfig](r chi.Router, svc *application.ConfigService[T], logger zerolog.Logger) {
	name := svc.Domain().Name
	r.Get("/"+name+"/{guildId}", getConfigHandler(svc, logger))
	r.Post("/"+name, upsertConfigHandler(svc, logger))
	r.Delete("/server-config/clear-"+name+"/{guildId}", clearConfigHandler(svc, logger))
}

// getConfigHandler returns the stored document; a missing one is a 404 marked disabled
func getConfigHandler[T domain.GuildConfig](svc *application.ConfigService[T], logger zerolog.Logger) http.HandlerFunc {
	label := svc.Domain().Label
	return func(w http.ResponseWriter, r *http.Request) {
		config, err := svc.Get(r.Context(), chi.URLParam(r, "guildId"))
		if domain.IsKind(err, domain.KindNotConfigured) {
			writeJSON(w, http.StatusNotFound, errorResponse{Message: label + " config not found", Disabled: true})
			return
		}
		if err != nil {
			writeError(w, logger, err, "Server error fetching "+label+" config")
			return
		}
		writeJSON(w, http.StatusOK, config)
	}
}

// upsertConfigHandler replaces the document named by the body's guildId
func upsertConfigHandler[T domain.GuildConfig](svc *application.ConfigService[T], logger zerolog.Logger) http.HandlerFunc {
	label := svc.Domain().Label
	return func(w http.ResponseWriter, r *http.Request) {
		var config T
		if err := decodeJSON(r, &config); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request data.")
			return
		}

		saved, err := svc.Upsert(r.Context(), config.GuildKey(), &config)
		if err != nil {
			writeError(w, logger, err, "Server error saving "+label+" config")
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

// upsertConfigByPathHandler is the path-keyed upsert form kept for older dashboard pages
func upsertConfigByPathHandler[T domain.GuildConfig](svc *application.ConfigService[T], logger zerolog.Logger) http.HandlerFunc {
	label := svc.Domain().Label
	return func(w http.ResponseWriter, r *http.Request) {
		var config T
		if err := decodeJSON(r, &config); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request data.")
			return
		}

		if _, err := svc.Upsert(r.Context(), chi.URLParam(r, "guildId"), &config); err != nil {
			writeError(w, logger, err, "Server error saving "+label+" config")
			return
		}
		writeMessage(w, http.StatusOK, label+" saved successfully.")
	}
}

// clearConfigHandler deletes the guild's document
func clearConfigHandler[T domain.GuildConfig](svc *application.ConfigService[T], logger zerolog.Logger) http.HandlerFunc {
	label := svc.Domain().Label
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), chi.URLParam(r, "guildId")); err != nil {
			writeError(w, logger, err, "Server error clearing "+label+" config")
			return
		}
		writeMessage(w, http.StatusOK, label+" configuration cleared successfully!")
	}
}

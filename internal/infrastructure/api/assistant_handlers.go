package api

import (
	"net/http"

	"skyutilities-dashboard/internal/application"

	"github.com/rs/zerolog"
)

type aiChatRequest struct {
	Question string `json:"question"`
}

type aiChatResponse struct {
	Answer string `json:"answer"`
}

// aiChatHandler forwards a question to the assistant
func aiChatHandler(assistant *application.AssistantService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req aiChatRequest
		if err := decodeJSON(r, &req); err != nil {
			logger.Debug().Err(err).Msg("Unreadable AI chat body")
		}

		answer, err := assistant.Ask(r.Context(), req.Question)
		if err != nil {
			writeError(w, logger, err, "Failed to get a response from the AI service.")
			return
		}
		writeJSON(w, http.StatusOK, aiChatResponse{Answer: answer})
	}
}

package routes

import (
	"encoding/json"
	"net/http"

	"historytutor/tutor/controllers"
	"historytutor/tutor/middlewares"
	"historytutor/tutor/utils/types"

	"github.com/go-chi/chi/v5"
)

func SuggestionRoutes(ctrl *controllers.SuggestionsController) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware())

	r.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.SuggestionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		set := ctrl.Suggest(r.Context(), middlewares.TokenFromContext(r.Context()), req.Messages)
		return types.SuggestionsResponse{Suggestions: set}, http.StatusOK, nil
	}))
	return r
}

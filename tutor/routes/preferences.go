package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"historytutor/tutor/controllers"
	"historytutor/tutor/middlewares"
	"historytutor/tutor/utils/types"

	"github.com/go-chi/chi/v5"
)

func PreferenceRoutes(ctrl *controllers.PreferencesController, secureCookies bool) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.ClientID(secureCookies))

	r.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
		clientID := middlewares.ClientIDFromContext(r.Context())
		prefs, err := ctrl.Get(r.Context(), clientID, r.Header.Get("Accept-Language"))
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return prefs, http.StatusOK, nil
	}))

	r.Put("/", handleJSON(func(r *http.Request) (any, int, error) {
		var upd controllers.PreferencesUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			return nil, http.StatusBadRequest, err
		}
		clientID := middlewares.ClientIDFromContext(r.Context())
		prefs, err := ctrl.Update(r.Context(), clientID, r.Header.Get("Accept-Language"), upd)
		if errors.Is(err, controllers.ErrInvalidPreferences) {
			return nil, http.StatusBadRequest, err
		}
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return prefs, http.StatusOK, nil
	}))
	return r
}

func LocaleRoutes(ctrl *controllers.LocalesController) chi.Router {
	r := chi.NewRouter()
	r.Get("/{lang}", func(w http.ResponseWriter, r *http.Request) {
		lang := types.Language(chi.URLParam(r, "lang"))
		if !lang.Valid() {
			http.Error(w, "unsupported language", http.StatusNotFound)
			return
		}
		bundle, err := ctrl.Bundle(r.Context(), lang)
		if err != nil {
			http.Error(w, "locale bundle unavailable", http.StatusBadGateway)
			return
		}
		if bundle == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(bundle)
	})
	return r
}

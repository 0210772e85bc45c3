// historytutor/tutor/routes/auth.go
package routes

import (
	"net/http"

	"historytutor/tutor/controllers"
	"historytutor/tutor/middlewares"
	"historytutor/tutor/utils/logging"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func EchoRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()

	r.Get("/check-auth", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.CheckAuth(r.Context(), middlewares.EchoToken(r)), http.StatusOK, nil
	}))
	r.Get("/signin", ctrl.SignIn)
	r.Get("/callback", ctrl.Callback)
	r.Post("/signout", func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.SignOut(w); err != nil {
			logging.ErrorLogger.Error("sign out", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Sign out failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	return r
}

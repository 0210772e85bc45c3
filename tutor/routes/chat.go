package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"historytutor/tutor/controllers"
	"historytutor/tutor/middlewares"
	"historytutor/tutor/services/uistream"
	httputils "historytutor/tutor/utils/http"
	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const streamErrorText = "An error occurred while generating the response."

// upstreamStatus maps a provider failure to the status returned before any
// stream bytes are written.
func upstreamStatus(err error) int {
	if errors.Is(err, controllers.ErrNoMessages) {
		return http.StatusBadRequest
	}
	var se *httputils.StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusPaymentRequired) {
		return se.StatusCode
	}
	return http.StatusBadGateway
}

func ChatRoutes(ctrl *controllers.ChatController) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware())

	// POST /api/chat : UI message stream
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx := r.Context()
		ch, err := ctrl.ChatStream(ctx, middlewares.TokenFromContext(ctx), req)
		if err != nil {
			logging.ErrorLogger.Error("chat stream open", zap.Error(err))
			writeJSON(w, upstreamStatus(err), map[string]string{"error": err.Error()})
			return
		}

		uistream.SetHeaders(w.Header())
		w.WriteHeader(http.StatusOK)
		sw := uistream.NewWriter(w)
		if err := sw.Start(uuid.NewString(), uuid.NewString()); err != nil {
			return
		}
		for chunk := range ch {
			if chunk.Err != nil {
				logging.ErrorLogger.Error("chat stream", zap.Error(chunk.Err))
				sw.Error(streamErrorText)
				return
			}
			if err := sw.Text(chunk.Content); err != nil {
				logging.AppLogger.Info("chat client went away", zap.Error(err))
				return
			}
		}
		sw.Finish()
	})

	// GET /api/chat/ws : first frame is the request, then one text frame per chunk
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var req types.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			conn.Close(websocket.StatusInvalidFramePayloadData, "invalid json")
			return
		}

		ch, err := ctrl.ChatStream(ctx, middlewares.TokenFromContext(ctx), req)
		if err != nil {
			logging.ErrorLogger.Error("chat ws open", zap.Error(err))
			conn.Close(websocket.StatusInternalError, streamErrorText)
			return
		}
		for chunk := range ch {
			if chunk.Err != nil {
				logging.ErrorLogger.Error("chat ws stream", zap.Error(chunk.Err))
				conn.Close(websocket.StatusInternalError, streamErrorText)
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, []byte(chunk.Content)); err != nil {
				return
			}
		}
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return r
}

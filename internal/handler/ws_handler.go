package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/saitama-on/AssessmentAssist/internal/middleware"
	"github.com/saitama-on/AssessmentAssist/internal/model"
	"github.com/saitama-on/AssessmentAssist/internal/validation"
	ws "github.com/saitama-on/AssessmentAssist/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live validation results to the editing UI.
type WSHandler struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ValidateStream godoc
// WS /ws/v1/editor/validate
// Upgrades to WebSocket; the client streams candidate question documents and
// receives the draft validator's verdict for each one. Validation is pure and
// immediate, so every message gets exactly one reply in order.
func (h *WSHandler) ValidateStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("author_id", claims.UserID).Logger()
	wsLog.Info().Msg("Editor connected")

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionValidate:
			h.handleValidate(conn, &msg)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			ws.WriteError(conn, "unknown action")
		}
	}
}

func (h *WSHandler) handleValidate(conn *websocket.Conn, msg *ws.RequestPayload) {
	if msg.Question == nil {
		ws.WriteError(conn, "validate requires a question document")
		return
	}

	var q model.Question
	msg.Question.Apply(&q)

	result := validation.ValidateDraft(&q)
	ws.WriteTyped(conn, ws.ResultResponse{
		Event:   ws.EventResult,
		IsValid: result.IsValid,
		Errors:  result.Errors,
	})
}

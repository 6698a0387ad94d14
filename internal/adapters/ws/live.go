// Package ws serves the live pattern channel: each message carries a
// threading and turning sequence, each reply the woven pattern.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"nhooyr.io/websocket"

	httpadapter "github.com/Magnamura/card-weaving-generator/internal/adapters/http"
	"github.com/Magnamura/card-weaving-generator/internal/app"
)

const (
	pingInterval = 15 * time.Second
	maxMessage   = 1 << 20
)

type Live struct {
	svc          *app.WeavingService
	logger       *slog.Logger
	allowOrigins []string
}

// NewLive creates the live handler. allowOrigins are host patterns passed to
// websocket.AcceptOptions.OriginPatterns; empty means same origin only.
func NewLive(svc *app.WeavingService, logger *slog.Logger, allowOrigins []string) *Live {
	return &Live{svc: svc, logger: logger, allowOrigins: allowOrigins}
}

func (l *Live) Register(e *echo.Echo) {
	e.GET("/v1/live", l.Serve)
}

type errorMsg struct {
	Error string `json:"error"`
}

func (l *Live) Serve(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: l.allowOrigins,
	})
	if err != nil {
		// Accept has already written the HTTP error.
		return nil
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	conn.SetReadLimit(maxMessage)

	requestID := httpadapter.RequestID(c)
	logger := l.logger.With("request_id", requestID)
	logger.Info("live client connected")

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()
	go l.keepAlive(ctx, conn)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				logger.Warn("live read failed", "error", err)
			}
			logger.Info("live client disconnected")
			return nil
		}

		reply := l.handle(ctx, data, requestID)
		if err := conn.Write(ctx, websocket.MessageText, reply); err != nil {
			logger.Warn("live write failed", "error", err)
			return nil
		}
	}
}

func (l *Live) handle(ctx context.Context, data []byte, requestID string) []byte {
	var body httpadapter.PatternRequest
	if err := json.Unmarshal(data, &body); err != nil {
		return encode(errorMsg{Error: "invalid message: " + err.Error()})
	}
	req, err := body.ToApp()
	if err != nil {
		return encode(errorMsg{Error: err.Error()})
	}
	resp, err := l.svc.Generate(ctx, req)
	if err != nil {
		return encode(errorMsg{Error: err.Error()})
	}
	return encode(httpadapter.ToPatternResponse(resp, requestID))
}

func (l *Live) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}

func encode(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

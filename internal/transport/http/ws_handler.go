package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/meetpoint/meetpoint-server/internal/auth"
	"github.com/meetpoint/meetpoint-server/internal/core"
	"github.com/meetpoint/meetpoint-server/internal/proto"
	"github.com/meetpoint/meetpoint-server/internal/utils"
)

const accessTokenCookie = "accessToken"

// WSHandler upgrades HTTP connections, authenticates them once at handshake
// time, and bridges them to a core.Client.
type WSHandler struct {
	hub       *core.Hub
	auth      *auth.Service
	rateLimit int
	log       *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler. rateLimit caps inbound
// messages per connection per minute; zero disables the cap.
func NewWSHandler(hub *core.Hub, authService *auth.Service, rateLimit int, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, auth: authService, rateLimit: rateLimit, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	identity, err := h.authenticate(ctx, r)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws handshake rejected")
		_ = wsjson.Write(ctx, conn, proto.Outbound{
			Type:  "event",
			Event: proto.EventConnectionError,
			Data:  proto.ConnectionErrorData{Message: "unauthorized handshake"},
		})
		conn.Close(websocket.StatusPolicyViolation, "unauthorized")
		return
	}

	client := core.NewClient(utils.NewID(), identity.UserID, identity.Username)
	h.hub.Connect(client)
	defer h.hub.Disconnect(client)

	if err := wsjson.Write(ctx, conn, proto.Outbound{
		Type:  "event",
		Event: proto.EventConnectionConfirmed,
		Data: proto.ConnectionConfirmedData{
			ConnID:   client.ConnID,
			UserID:   client.UserID,
			Username: client.Name,
		},
	}); err != nil {
		h.log.Warn().Err(err).Msg("write connection confirmation")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", client.ConnID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// authenticate resolves the handshake token: the access-token cookie first,
// then an explicit token query parameter for clients that cannot send
// cookies.
func (h *WSHandler) authenticate(ctx context.Context, r *stdhttp.Request) (*auth.Identity, error) {
	var token string
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return nil, errors.New("token is missing")
	}

	return h.auth.Authenticate(ctx, token)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newRateLimiter(h.rateLimit)

	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if !limiter.allow() {
			if err := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  "error",
				Error: &proto.Error{Code: core.ErrCodeInvalidRequest, Msg: "rate limit exceeded"},
			}); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr, err := inboundToCommand(inbound)
		if err != nil {
			h.log.Warn().Err(err).Str("conn_id", client.ConnID).Msg("failed to map inbound")
			protoErr = &proto.Error{Code: core.ErrCodeInvalidRequest, Msg: "malformed payload"}
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  "error",
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
			continue
		}

		// Commands run inline on the read loop: per-connection event order
		// is preserved, and hub calls only block on their own I/O.
		h.hub.Dispatch(ctx, client, cmd)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ConnID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

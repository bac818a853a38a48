package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"edugame/backend/internal/hub"
	"edugame/backend/internal/middleware"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultSendBuffer   = 16
	defaultWriteTimeout = 5 * time.Second
)

// Options tunes the realtime endpoint.
type Options struct {
	// OriginPatterns is passed to websocket.AcceptOptions; empty means same-origin only.
	OriginPatterns []string
	SendBuffer     int
	WriteTimeout   time.Duration
	// Authorize gates join_lobby. Nil accepts every join.
	Authorize Authorizer
}

// Handler upgrades the request and runs a Session until the socket closes.
func Handler(h *hub.Hub, logger *logrus.Logger, opts Options) gin.HandlerFunc {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}

	return func(c *gin.Context) {
		r := c.Request
		// gin's writer refuses to hijack once Accept has flushed the 101 header.
		var w http.ResponseWriter = c.Writer
		if u, ok := w.(interface{ Unwrap() http.ResponseWriter }); ok {
			w = u.Unwrap()
		}
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			logger.WithError(err).Warn("websocket accept error")
			return
		}
		defer conn.Close(websocket.StatusInternalError, "handler finished")

		client := hub.NewClient(uuid.NewString(), opts.SendBuffer)
		fields := logrus.Fields{"conn": client.ID}
		if userID, ok := c.Get("userID"); ok {
			fields["user"] = userID
		}
		log := logger.WithFields(fields)
		middleware.LogWebSocketConnect(log, r.RemoteAddr, r.URL.Path)

		session := NewSession(h, client, log)
		if opts.Authorize != nil {
			session.WithAuthorizer(c.GetUint("userID"), opts.Authorize)
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go writePump(ctx, conn, client, opts.WriteTimeout, log)

		err = readPump(ctx, conn, session, log)

		session.Close()
		middleware.LogWebSocketDisconnect(log, r.RemoteAddr, r.URL.Path, err)
		if err == nil {
			conn.Close(websocket.StatusNormalClosure, "")
		}
	}
}

// readPump feeds frames to the session until the connection fails. A normal
// close from the peer returns nil.
func readPump(ctx context.Context, conn *websocket.Conn, session *Session, log logrus.FieldLogger) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if typ != websocket.MessageText {
			log.WithField("frame", typ.String()).Warn("Ignoring non-text frame")
			continue
		}
		session.Handle(ctx, data)
	}
}

// writePump drains the client's queue onto the socket, in order.
func writePump(ctx context.Context, conn *websocket.Conn, client *hub.Client, timeout time.Duration, log logrus.FieldLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.Done():
			return
		case msg := <-client.Messages():
			writeCtx, cancel := context.WithTimeout(ctx, timeout)
			err := conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				log.WithError(err).Debug("write failed, closing connection")
				client.Close()
				conn.Close(websocket.StatusGoingAway, "write failed")
				return
			}
		}
	}
}

package stt

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smallestai/waves-go/pkg/errorsx"
)

// Conn is the minimal transport surface the session needs. The production
// implementation is a gorilla websocket connection; tests substitute a
// scripted in-memory conn.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer establishes a Conn. Split out so sessions can be exercised without
// a network.
type Dialer interface {
	DialContext(ctx context.Context, url string, header http.Header) (Conn, error)
}

type wsDialer struct {
	handshakeTimeout time.Duration
}

func (d wsDialer) DialContext(ctx context.Context, url string, header http.Header) (Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: d.handshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		reason := errorsx.ReasonConnect
		if os.IsTimeout(err) || ctx.Err() != nil {
			reason = errorsx.ReasonConnectTimeout
		}
		return nil, connectionErr(err, reason)
	}
	return conn, nil
}

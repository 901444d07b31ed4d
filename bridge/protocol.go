package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// MaxFrameSize bounds one encoded request. Clients refuse larger requests
// before sending them, and websocket servers read no more than this per
// message.
const MaxFrameSize = 4 << 20

// ErrFrameTooLarge is returned for a request whose encoding exceeds
// MaxFrameSize.
var ErrFrameTooLarge = errors.New("request exceeds bridge frame limit")

// Request is one command call on the wire.
type Request struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	Args    Args   `json:"args"`
}

// Response answers the Request with the same ID. Exactly one of Result and
// Error is meaningful.
type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func responseFor(id string, res Result) Response {
	if !res.Ok() {
		return Response{ID: id, Error: res.Err().Error()}
	}
	return Response{ID: id, Result: res.Raw()}
}

// result converts a wire response back into a Result.
func (r Response) result() Result {
	if r.Error != "" {
		// Servers send the full error text; avoid repeating the class prefix.
		msg := strings.TrimPrefix(r.Error, ErrInvocation.Error())
		msg = strings.TrimPrefix(msg, ": ")
		if msg == "" {
			return Failure(nil)
		}
		return Failure(errors.New(msg))
	}
	if len(r.Result) > 0 && !json.Valid(r.Result) {
		return Failure(fmt.Errorf("malformed response %s", r.ID))
	}
	return Success(r.Result)
}

// codec moves JSON frames over one connection. Write is safe for concurrent
// use; Read is called from a single goroutine.
type codec interface {
	Read(ctx context.Context, v any) error
	Write(ctx context.Context, v any) error
	Close() error
}

// streamCodec frames newline-delimited JSON over a byte stream.
type streamCodec struct {
	conn net.Conn
	dec  *json.Decoder
	mu   sync.Mutex
	enc  *json.Encoder
}

func newStreamCodec(conn net.Conn) *streamCodec {
	return &streamCodec{
		conn: conn,
		dec:  json.NewDecoder(conn),
		enc:  json.NewEncoder(conn),
	}
}

func (c *streamCodec) Read(_ context.Context, v any) error {
	return c.dec.Decode(v)
}

func (c *streamCodec) Write(_ context.Context, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enc.Encode(v)
}

func (c *streamCodec) Close() error {
	return c.conn.Close()
}

// wsCodec frames one JSON message per websocket text message.
type wsCodec struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newWSCodec(conn *websocket.Conn) *wsCodec {
	return &wsCodec{conn: conn}
}

func (c *wsCodec) Read(ctx context.Context, v any) error {
	err := wsjson.Read(ctx, c.conn, v)
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
		return io.EOF
	}
	return err
}

func (c *wsCodec) Write(ctx context.Context, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return wsjson.Write(ctx, c.conn, v)
}

func (c *wsCodec) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// isClosedErr reports errors that just mean the peer went away.
func isClosedErr(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

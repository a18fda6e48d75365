package cloudbuild

import (
	"fmt"
	"net/url"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Socket is the part of a socket.io client a build session talks to.
type Socket interface {
	On(event string, listener func(...any))
	Emit(event string, args ...any) error
	Connect()
	Close()
	ID() string
}

// Dialer prepares an unconnected socket to endpoint carrying query as
// connection parameters.
type Dialer func(endpoint string, query url.Values) (Socket, error)

type socketIOSocket struct {
	io *socket.Socket
}

// DialSocketIO builds a websocket-only socket.io client that never
// reconnects on its own.
func DialSocketIO(endpoint string, query url.Values) (Socket, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse build server URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid build server URL %q", endpoint)
	}

	opts := socket.DefaultOptions()
	if parsed.Path != "" && parsed.Path != "/" {
		opts.SetPath(parsed.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetQuery(query)
	opts.SetReconnection(false)
	opts.SetAutoConnect(false)
	opts.SetForceNew(true)

	baseURL := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	manager := socket.NewManager(baseURL, opts)
	return &socketIOSocket{io: manager.Socket("/", opts)}, nil
}

func (s *socketIOSocket) On(event string, listener func(...any)) {
	_ = s.io.On(types.EventName(event), listener)
}

func (s *socketIOSocket) Emit(event string, args ...any) error {
	return s.io.Emit(event, args...)
}

func (s *socketIOSocket) Connect() {
	s.io.Connect()
}

func (s *socketIOSocket) Close() {
	s.io.Disconnect()
}

func (s *socketIOSocket) ID() string {
	return s.io.Id()
}

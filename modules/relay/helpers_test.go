package relay

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/require"

	domain "github.com/example/chat-relay/domain/relay"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHub(opts ...HubOption) *Hub {
	opts = append([]HubOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewHub(discardLogger(), opts...)
}

// fakeSender records every frame it is asked to deliver.
type fakeSender struct {
	mu     sync.Mutex
	frames [][]byte
	err    error
	panics bool
}

func (f *fakeSender) Send(data []byte) error {
	if f.panics {
		panic("send on broken channel")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, append([]byte(nil), data...))
	return nil
}

func (f *fakeSender) raw() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.frames...)
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	f.frames = nil
	f.mu.Unlock()
}

// events decodes every recorded frame.
func (f *fakeSender) events(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, frame := range f.raw() {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(frame, &ev))
		out = append(out, ev)
	}
	return out
}

// ofType filters decoded events by type.
func ofType(evs []map[string]any, eventType string) []map[string]any {
	var out []map[string]any
	for _, ev := range evs {
		if ev["type"] == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// client pairs a session with the sender it was opened on.
type client struct {
	*Session
	out *fakeSender
}

func openClient(h *Hub) client {
	out := &fakeSender{}
	return client{Session: h.Open(out), out: out}
}

func (c client) send(t *testing.T, h *Hub, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	h.Dispatch(c.Session, data)
}

// resetAll clears recorded frames on every client.
func resetAll(clients ...client) {
	for _, c := range clients {
		c.out.reset()
	}
}

// fakeConn is an in-memory Conn fed through a channel.
type fakeConn struct {
	fakeSender
	in        chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case data := <-c.in:
		return data, nil
	case <-c.closed:
		return nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// recordingObserver captures observer notices.
type recordingObserver struct {
	mu       sync.Mutex
	presence []domain.Presence
	relays   []domain.Relay
}

func (o *recordingObserver) PresenceChanged(p domain.Presence) {
	o.mu.Lock()
	o.presence = append(o.presence, p)
	o.mu.Unlock()
}

func (o *recordingObserver) EventRelayed(r domain.Relay) {
	o.mu.Lock()
	o.relays = append(o.relays, r)
	o.mu.Unlock()
}

func (o *recordingObserver) snapshot() ([]domain.Presence, []domain.Relay) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.Presence(nil), o.presence...), append([]domain.Relay(nil), o.relays...)
}

package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_FailedRecipientsAreSkipped(t *testing.T) {
	r := NewRegistry()
	router := NewRouter(r, discardLogger())

	healthy := &fakeSender{}
	closed := &fakeSender{err: ErrConnectionClosed}
	broken := &fakeSender{panics: true}
	other := &fakeSender{}

	for _, sender := range []*fakeSender{closed, broken, healthy, other} {
		r.Add(newSession(sender), "lobby")
	}

	d := router.Broadcast("lobby", nil, CountEvent{Type: TypeCount, Count: 4})

	assert.Equal(t, 4, d.Recipients)
	assert.Equal(t, 2, d.Failed)
	assert.Len(t, healthy.raw(), 1)
	assert.Len(t, other.raw(), 1)
	assert.JSONEq(t, `{"type":"count","count":4}`, string(healthy.raw()[0]))
}

func TestRouter_BroadcastRawKeepsBytes(t *testing.T) {
	r := NewRegistry()
	router := NewRouter(r, discardLogger())

	sender := newSession(&fakeSender{})
	peer := &fakeSender{}
	r.Add(sender, "lobby")
	r.Add(newSession(peer), "lobby")

	raw := []byte(`{ "type" : "delete", "id": 7, "extra": [1,2] }`)
	d := router.BroadcastRaw("lobby", sender, raw)

	assert.Equal(t, Delivery{Recipients: 1}, d)
	assert.Equal(t, [][]byte{raw}, peer.raw())
}

func TestRouter_UnencodableEventIsDropped(t *testing.T) {
	r := NewRegistry()
	router := NewRouter(r, discardLogger())
	peer := &fakeSender{}
	r.Add(newSession(peer), "lobby")

	d := router.Broadcast("lobby", nil, map[string]any{"bad": make(chan int)})

	assert.Equal(t, Delivery{}, d)
	assert.Empty(t, peer.raw())
}

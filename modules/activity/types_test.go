package activity

import (
	"fmt"
	"testing"
	"time"

	domain "github.com/example/chat-relay/domain/relay"
)

func TestStore_RecentIsBoundedAndNewestFirst(t *testing.T) {
	store := NewStore(3)

	for i := 0; i < 5; i++ {
		store.RecordPresence(domain.Presence{
			Kind:      domain.PresenceConnected,
			SessionID: fmt.Sprintf("s%d", i),
			RoomID:    "global",
			Count:     i + 1,
			Timestamp: time.Now(),
		})
	}

	recent := store.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("Recent(0) returned %d entries, want 3", len(recent))
	}
	want := []string{"s4", "s3", "s2"}
	for i, entry := range recent {
		if entry.SessionID != want[i] {
			t.Errorf("Recent(0)[%d].SessionID = %q, want %q", i, entry.SessionID, want[i])
		}
		if entry.ID == "" {
			t.Errorf("Recent(0)[%d].ID should not be empty", i)
		}
	}

	if got := store.Recent(1); len(got) != 1 || got[0].SessionID != "s4" {
		t.Errorf("Recent(1) = %+v, want only s4", got)
	}
	if got := store.Recent(10); len(got) != 3 {
		t.Errorf("Recent(10) returned %d entries, want 3", len(got))
	}
}

func TestStore_RecentEmpty(t *testing.T) {
	store := NewStore(0)

	if got := store.Recent(5); len(got) != 0 {
		t.Errorf("Recent(5) on empty store returned %d entries", len(got))
	}
	if store.maxEntries != DefaultMaxEntries {
		t.Errorf("maxEntries = %d, want default %d", store.maxEntries, DefaultMaxEntries)
	}
}

func TestStore_Summary(t *testing.T) {
	store := NewStore(10)
	now := time.Now()

	store.RecordPresence(domain.Presence{Kind: domain.PresenceConnected, RoomID: "global", Count: 1})
	store.RecordPresence(domain.Presence{Kind: domain.PresenceConnected, RoomID: "global", Count: 2})
	store.RecordPresence(domain.Presence{Kind: domain.PresenceJoined, RoomID: "global", Count: 2})
	store.RecordPresence(domain.Presence{Kind: domain.PresenceMoved, RoomID: "lobby", Count: 1, PreviousCount: 1})
	store.RecordPresence(domain.Presence{Kind: domain.PresenceDisconnected, RoomID: "lobby", Count: 0})

	store.RecordRelay(domain.Relay{Type: "message", Recipients: 3, Failed: 1, Timestamp: now})
	store.RecordRelay(domain.Relay{Type: "message", Recipients: 2, Timestamp: now})
	store.RecordRelay(domain.Relay{Type: "edit", Recipients: 1, Timestamp: now})

	sum := store.Summary()

	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{name: "connected", got: sum.Connected, want: 2},
		{name: "joined", got: sum.Joined, want: 1},
		{name: "moved", got: sum.Moved, want: 1},
		{name: "disconnected", got: sum.Disconnected, want: 1},
		{name: "events relayed", got: sum.EventsRelayed, want: 3},
		{name: "deliveries", got: sum.Deliveries, want: 5},
		{name: "failed deliveries", got: sum.FailedDeliveries, want: 1},
		{name: "peak room size", got: int64(sum.PeakRoomSize), want: 2},
		{name: "entries", got: int64(sum.Entries), want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Summary().%s = %d, want %d", tt.name, tt.got, tt.want)
			}
		})
	}

	if sum.PeakRoomID != "global" {
		t.Errorf("PeakRoomID = %q, want 'global'", sum.PeakRoomID)
	}
	if len(sum.ByType) != 2 || sum.ByType[0].Type != "edit" || sum.ByType[1].Type != "message" {
		t.Fatalf("ByType = %+v, want edit then message", sum.ByType)
	}
	if sum.ByType[1].Events != 2 || !sum.ByType[1].LastRelayed.Equal(now) {
		t.Errorf("message stats = %+v", sum.ByType[1])
	}
}

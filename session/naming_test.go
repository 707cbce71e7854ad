package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSessionID(t *testing.T) {
	now := time.Date(2025, 6, 11, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Sprint Planning", "Sprint_Planning"},
		{"whitespace runs collapse", "  Sprint   Planning  ", "Sprint_Planning"},
		{"tabs and newlines", "a\tb\nc", "a_b_c"},
		{"keeps dash and underscore", "rel-2025_q3", "rel-2025_q3"},
		{"strips punctuation", "what's up?", "whats_up"},
		{"strips non ascii", "café notes", "caf_notes"},
		{"already clean", "Backlog", "Backlog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSessionID(tt.in, now))
		})
	}
}

func TestDeriveSessionID_FallbackName(t *testing.T) {
	now := time.Date(2025, 6, 11, 14, 30, 0, 0, time.UTC)

	// Empty, blank and names that strip to nothing all synthesize from the clock.
	for _, in := range []string{"", "   ", "!!!", "éè"} {
		assert.Equal(t, "Chat_06_11_14_30", DeriveSessionID(in, now), "input %q", in)
	}
}

func TestBlobKey(t *testing.T) {
	ts := time.Date(2025, 6, 11, 10, 0, 5, 0, time.UTC)
	assert.Equal(t, "chat_session_Sprint_Planning_20250611_100005.json", BlobKey("Sprint_Planning", ts))
}

func TestParseBlobKey_RoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 11, 10, 0, 5, 0, time.UTC)

	// Session ids may themselves contain underscores and digits; the parser
	// must recover them from the fixed-width timestamp tail.
	for _, id := range []string{"Backlog", "Sprint_Planning", "Chat_06_11_14_30", "a_20250611_101112_b"} {
		gotID, gotTS, ok := ParseBlobKey(BlobKey(id, ts))
		assert.True(t, ok, "key for %q", id)
		assert.Equal(t, id, gotID)
		assert.True(t, ts.Equal(gotTS))
	}
}

func TestParseBlobKey_Rejects(t *testing.T) {
	bad := []string{
		"",
		"chat_session_x.json",                           // no timestamp
		"chat_session_20250611_100005.json",             // timestamp but empty id
		"session_x_20250611_100005.json",                // wrong prefix
		"chat_session_x_20250611_100005.txt",            // wrong suffix
		"chat_session_x-20250611_100005.json",           // missing separator
		"chat_session_x_20251399_100005.json",           // invalid month/day
		"chat_session_summary.json",                     // unrelated blob
		"chat_session_x_20250611T100005.json",           // wrong layout
	}
	for _, name := range bad {
		_, _, ok := ParseBlobKey(name)
		assert.False(t, ok, "expected reject for %q", name)
	}
}

package session

import (
	"strings"
	"time"
)

const (
	// blobPrefix is the fixed prefix of every snapshot blob key. The full
	// key format chat_session_{session_id}_{YYYYMMDD_HHMMSS}.json is a wire
	// contract shared with the front end.
	blobPrefix = "chat_session_"
	blobSuffix = ".json"

	// blobTimeLayout is the second-precision timestamp suffix of a blob key.
	blobTimeLayout = "20060102_150405"
	// defaultNameLayout produces auto-generated session names (Chat_MM_DD_HH_MM).
	defaultNameLayout = "Chat_01_02_15_04"
)

// DeriveSessionID normalizes a human session name into an identifier-safe
// token: whitespace runs become underscores and characters outside
// [A-Za-z0-9_-] are stripped. An empty or blank name (or one that strips to
// nothing) yields a name synthesized from the wall clock.
func DeriveSessionID(name string, now time.Time) string {
	fields := strings.Fields(name)
	joined := strings.Join(fields, "_")
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return -1
	}, joined)
	if id == "" {
		return now.Format(defaultNameLayout)
	}
	return id
}

// BlobKey derives the blob name for a snapshot of sessionID taken at ts.
// Keys are unique as long as two saves of the same session do not land in
// the same second; a same-second save produces the same key and overwrites,
// which is accepted (the later payload supersedes the earlier one).
func BlobKey(sessionID string, ts time.Time) string {
	return blobPrefix + sessionID + "_" + ts.Format(blobTimeLayout) + blobSuffix
}

// ParseBlobKey recovers the session id and snapshot timestamp from a blob
// key. It is the inverse of BlobKey; session ids may themselves contain
// underscores, so the timestamp is taken from the fixed-width tail. Returns
// ok=false for names that do not match the key format.
func ParseBlobKey(name string) (sessionID string, ts time.Time, ok bool) {
	if !strings.HasPrefix(name, blobPrefix) || !strings.HasSuffix(name, blobSuffix) {
		return "", time.Time{}, false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(name, blobPrefix), blobSuffix)
	// body = {session_id}_{YYYYMMDD_HHMMSS}; the tail is fixed width.
	tailLen := len(blobTimeLayout)
	if len(body) < tailLen+2 || body[len(body)-tailLen-1] != '_' {
		return "", time.Time{}, false
	}
	sessionID = body[:len(body)-tailLen-1]
	t, err := time.Parse(blobTimeLayout, body[len(body)-tailLen:])
	if err != nil {
		return "", time.Time{}, false
	}
	return sessionID, t.UTC(), true
}

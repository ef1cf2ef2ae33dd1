package persistence

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"example.com/workoutmap/internal/workout"
)

// Cursor points at the last record of a previously returned page.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// EncodeCursor serialises the cursor to a string token.
func EncodeCursor(c *Cursor) string {
	if c == nil {
		return ""
	}
	raw := fmt.Sprintf("%s|%s", c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses the encoded cursor token.
func DecodeCursor(token string) (*Cursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, err
	}
	return &Cursor{CreatedAt: ts, ID: parts[1]}, nil
}

// Page returns up to limit records in log order starting after the cursor,
// plus the cursor for the following page when one may exist.
func Page(records []workout.Record, cursor *Cursor, limit int) ([]workout.Record, *Cursor) {
	start := 0
	if cursor != nil {
		start = len(records)
		for i, r := range records {
			if r.ID == cursor.ID {
				start = i + 1
				break
			}
		}
	}
	if start >= len(records) {
		return []workout.Record{}, nil
	}

	end := len(records)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	page := make([]workout.Record, end-start)
	copy(page, records[start:end])

	var next *Cursor
	if end < len(records) {
		last := page[len(page)-1]
		next = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return page, next
}

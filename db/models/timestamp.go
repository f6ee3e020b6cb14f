package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// Timestamp is a nullable database time that travels as unix seconds on the wire, 0 meaning unset.
type Timestamp struct {
	bun.NullTime
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{bun.NullTime{Time: t}}
}

func (ts Timestamp) Unix() uint64 {
	if ts.IsZero() || ts.Time.Unix() < 0 {
		return 0
	}
	return uint64(ts.Time.Unix())
}

// Scan reads the column through bun.NullTime and keeps the result in UTC.
func (ts *Timestamp) Scan(src interface{}) error {
	if err := ts.NullTime.Scan(src); err != nil {
		return err
	}
	if !ts.IsZero() {
		ts.Time = ts.Time.UTC()
	}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, ts.Unix(), 10), nil
}

// UnmarshalJSON accepts unix seconds, null or an RFC 3339 string.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		ts.Time = time.Time{}
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			ts.Time = time.Time{}
			return nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", s, err)
		}
		ts.Time = t
		return nil
	}
	seconds, err := strconv.ParseUint(string(b), 10, 63)
	if err != nil {
		return fmt.Errorf("timestamp %s is not unix seconds: %w", b, err)
	}
	if seconds == 0 {
		ts.Time = time.Time{}
		return nil
	}
	ts.Time = time.Unix(int64(seconds), 0).UTC()
	return nil
}

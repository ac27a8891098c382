package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_UnmarshalFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2024-05-01T10:00:00Z"`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"offset", `"2024-05-01T12:00:00+02:00"`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"naive micros", `"2024-05-01T10:00:00.123456"`, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{"naive seconds", `"2024-05-01T10:00:00"`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"space separator", `"2024-05-01 10:00:00.5"`, time.Date(2024, 5, 1, 10, 0, 0, 500000000, time.UTC)},
		{"date only", `"2024-05-01"`, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, ts.Time)
			}
		})
	}
}

func TestTimestamp_NullAndEmpty(t *testing.T) {
	for _, in := range []string{`null`, `""`} {
		ts := NewTimestamp(time.Now())
		if err := json.Unmarshal([]byte(in), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if !ts.IsZero() {
			t.Errorf("expected zero time for %s, got %v", in, ts.Time)
		}
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error for unrecognized format")
	}
	if err := json.Unmarshal([]byte(`1714557600`), &ts); err == nil {
		t.Error("expected error for a number")
	}
}

func TestTimestamp_NaiveFieldsInPayload(t *testing.T) {
	payload := `{"id":"a1","title":"T","url":"u","status":"analyzed",
		"published_at":"2024-04-30T08:00:00","created_at":"2024-05-01T10:00:00.123456","updated_at":null}`

	var a Article
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		t.Fatalf("unmarshal article: %v", err)
	}
	if a.PublishedAt == nil || a.PublishedAt.Hour() != 8 {
		t.Errorf("expected published_at 08:00, got %v", a.PublishedAt)
	}
	if a.CreatedAt.Nanosecond() != 123456000 {
		t.Errorf("expected microseconds kept, got %v", a.CreatedAt.Time)
	}
	if a.UpdatedAt != nil {
		t.Errorf("expected nil updated_at, got %v", a.UpdatedAt)
	}
}

func TestTimestamp_MarshalRoundTrip(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-05-01T10:00:00Z"` {
		t.Errorf("unexpected encoding %s", data)
	}

	zero, _ := json.Marshal(Timestamp{})
	if string(zero) != "null" {
		t.Errorf("expected null for zero time, got %s", zero)
	}
}

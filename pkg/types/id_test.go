package types

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshalAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ID
	}{
		{name: "string", raw: `{"id":"p1"}`, want: "p1"},
		{name: "padded string", raw: `{"id":"  42 "}`, want: "42"},
		{name: "number", raw: `{"id":42}`, want: "42"},
		{name: "null", raw: `{"id":null}`, want: ""},
		{name: "missing", raw: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload struct {
				ID ID `json:"id"`
			}
			if err := json.Unmarshal([]byte(tt.raw), &payload); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if payload.ID != tt.want {
				t.Fatalf("expected %q got %q", tt.want, payload.ID)
			}
		})
	}
}

func TestIDUnmarshalRejectsObjects(t *testing.T) {
	var payload struct {
		ID ID `json:"id"`
	}
	if err := json.Unmarshal([]byte(`{"id":{"x":1}}`), &payload); err == nil {
		t.Fatal("expected object id to be rejected")
	}
}

func TestIDInt64(t *testing.T) {
	if v, ok := ID("42").Int64(); !ok || v != 42 {
		t.Fatalf("expected 42, got %d (%v)", v, ok)
	}
	for _, raw := range []ID{"", "p1", "0", "-3"} {
		if _, ok := raw.Int64(); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
	if IDFromInt64(100) != "100" {
		t.Fatalf("unexpected render %q", IDFromInt64(100))
	}
}

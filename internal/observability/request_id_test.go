package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if id == "" {
		t.Fatal("expected non-empty request id")
	}

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := "abc-123"

	ctx = ContextWithRequestID(ctx, want)
	got := RequestIDFromContext(ctx)

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		got := RequestIDFromContext(context.Background())
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		got := RequestIDFromContext(ctx)
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}

func TestParseRequestID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{raw: "", wantOK: false},
		{raw: "abc-123", wantOK: false},
		{raw: id.String(), want: id.String(), wantOK: true},
		{raw: "urn:uuid:" + id.String(), want: id.String(), wantOK: true},
	}

	for _, tc := range tests {
		got, ok := ParseRequestID(tc.raw)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ParseRequestID(%q): expected (%q, %t), got (%q, %t)", tc.raw, tc.want, tc.wantOK, got, ok)
		}
	}
}

package fonts

import (
	"bytes"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		family string
		want   string
	}{
		{"Arial", Regular},
		{"Helvetica", Regular},
		{"Courier New", Mono},
		{"monospace", Mono},
		{"", Regular},
	}
	for _, tt := range tests {
		if got := Resolve(tt.family); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.family, got, tt.want)
		}
	}
}

func TestFaceCached(t *testing.T) {
	a, err := Face("Arial", 20)
	if err != nil {
		t.Fatalf("Face error: %v", err)
	}
	b, _ := Face("Helvetica", 20)
	if a != b {
		t.Error("families resolving to the same face and size should share it")
	}
	if m := a.Metrics(); m.Height <= 0 {
		t.Errorf("face height = %v, want positive", m.Height)
	}
}

func TestTTF(t *testing.T) {
	if bytes.Equal(TTF("Arial"), TTF("Courier")) {
		t.Error("regular and mono data should differ")
	}
}

func TestCSSFamily(t *testing.T) {
	if got := CSSFamily("Arial"); got != "'Arial', Arial, Helvetica, sans-serif" {
		t.Errorf("CSSFamily = %q", got)
	}
	if got := CSSFamily("Courier"); got != "'Courier', monospace" {
		t.Errorf("CSSFamily = %q", got)
	}
}

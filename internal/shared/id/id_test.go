package id

import (
	"strings"
	"testing"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestTypedPrefixes(t *testing.T) {
	tests := []struct {
		id     string
		prefix string
	}{
		{NewTurnID().String(), "turn"},
		{NewConnID().String(), "conn"},
		{NewRequestID().String(), "req"},
	}

	for _, tt := range tests {
		if !strings.HasPrefix(tt.id, tt.prefix+"_") {
			t.Errorf("ID should start with '%s_', got: %s", tt.prefix, tt.id)
		}
		parts := strings.Split(tt.id, "_")
		if len(parts) != 2 || len(parts[1]) != 26 {
			t.Errorf("ID should have format 'prefix_ulid', got: %s", tt.id)
		}
	}
}

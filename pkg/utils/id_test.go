package utils

import (
	"strings"
	"sync"
	"testing"
)

func TestGenerateRunID(t *testing.T) {
	id1 := GenerateRunID()
	id2 := GenerateRunID()

	if !strings.HasPrefix(id1, "run-") {
		t.Errorf("GenerateRunID should start with 'run-': %s", id1)
	}
	if id1 == id2 {
		t.Error("GenerateRunID should return unique IDs")
	}
	// run-YYYYMMDD-HHMMSS-xxxxxxxxxxxx
	parts := strings.Split(id1, "-")
	if len(parts) != 4 {
		t.Fatalf("Expected 4 dash-separated parts, got %d: %s", len(parts), id1)
	}
	if len(parts[3]) != 12 {
		t.Errorf("Expected 12 character suffix, got %d: %s", len(parts[3]), parts[3])
	}
}

func TestGenerateComparisonID(t *testing.T) {
	id := GenerateComparisonID()
	if !strings.HasPrefix(id, "cmp-") {
		t.Errorf("Expected 'cmp-' prefix, got %s", id)
	}
}

func TestGenerateRunIDConcurrency(t *testing.T) {
	const goroutines = 50
	ids := make(chan string, goroutines)
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- GenerateRunID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("Duplicate run ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"plain", "run-42", false},
		{"slash", "a/b", true},
		{"colon", "a:stop", true},
		{"space", "a b", true},
		{"too long", strings.Repeat("x", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRunID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

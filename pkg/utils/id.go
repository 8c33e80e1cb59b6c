package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRunID generates a run ID with a timestamp prefix
func GenerateRunID() string {
	timestamp := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("run-%s-%s", timestamp, shortUUID())
}

// GenerateComparisonID generates an ID for a scenario comparison report
func GenerateComparisonID() string {
	return "cmp-" + shortUUID()
}

// ValidateRunID rejects caller-supplied run IDs that would break URL routing
func ValidateRunID(id string) error {
	if id == "" {
		return nil
	}
	if len(id) > 128 {
		return fmt.Errorf("run id cannot be longer than 128 characters")
	}
	if strings.ContainsAny(id, "/?#: ") {
		return fmt.Errorf("run id cannot contain '/', '?', '#', ':' or spaces")
	}
	return nil
}

func shortUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

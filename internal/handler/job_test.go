package handler

import (
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/pocket-jobs/internal/repository"
)

func TestValidJobStatus(t *testing.T) {
	for _, s := range []string{"active", "inactive", "completed", "pending", "approved", "rejected"} {
		if !validJobStatus[s] {
			t.Fatalf("%q should be a valid status", s)
		}
	}
	for _, s := range []string{"", "deleted", "ACTIVE", "done"} {
		if validJobStatus[s] {
			t.Fatalf("%q should not be a valid status", s)
		}
	}
}

func TestParseJobDate(t *testing.T) {
	got, err := parseJobDate("2026-03-15")
	if err != nil {
		t.Fatalf("plain date: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 15 {
		t.Fatalf("plain date parsed as %v", got)
	}

	got, err = parseJobDate("2026-03-15T09:30:00Z")
	if err != nil {
		t.Fatalf("RFC3339: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("RFC3339 parsed as %v", got)
	}

	if _, err := parseJobDate("15/03/2026"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

// Create, update and detail all answer with the joined row, so the duration
// the client submitted must appear in the JSON while the raw nullable
// column stays hidden.
func TestJobRowJSONCarriesDuration(t *testing.T) {
	row := repository.JobRow{
		Job: repository.Job{
			ID:       1,
			Title:    "walk the dog",
			Duration: sql.NullString{String: "2 hours", Valid: true},
		},
		Duration:     "2 hours",
		FirstName:    "Ada",
		LastName:     "L",
		CategoryName: "pets",
	}
	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if !strings.Contains(string(out), `"duration":"2 hours"`) {
		t.Fatalf("duration missing from row JSON: %s", out)
	}
	if strings.Contains(string(out), "Valid") {
		t.Fatalf("raw nullable column leaked into JSON: %s", out)
	}
}

package testhelpers

import (
	"context"
	"testing"
)

func TestNewSQLiteManager_SchemaApplied(t *testing.T) {
	m := NewSQLiteManager(t)

	rs, err := m.Query(context.Background(),
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'schema_%' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to list tables: %v", err)
	}

	want := []string{"devices", "insight_engines", "insight_jobs", "insights", "media", "users"}
	if rs.Len() != len(want) {
		t.Fatalf("expected %d tables, got %d: %v", len(want), rs.Len(), rs.Rows)
	}
	for i, row := range rs.Rows {
		if row[0] != want[i] {
			t.Errorf("table %d: expected %s, got %v", i, want[i], row[0])
		}
	}

	if !m.IsReady() {
		t.Error("expected manager to be ready")
	}
}

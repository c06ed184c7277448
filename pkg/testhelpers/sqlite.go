package testhelpers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/database"
)

// NewSQLiteManager returns a Manager on a fresh migrated SQLite file in the
// test's temp dir. It is closed when the test ends.
func NewSQLiteManager(t *testing.T) *database.Manager {
	t.Helper()

	connector := database.NewSQLiteConnector(filepath.Join(t.TempDir(), "media.db"))

	// The migrator closes its handle, so it gets its own.
	sqlDB, err := database.OpenMigrationDB(database.SQLite, connector.DSN())
	if err != nil {
		t.Fatalf("Failed to open migration database: %v", err)
	}
	if err := database.RunMigrations(sqlDB, database.SQLite, zap.NewNop()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	m, err := database.Connect(context.Background(), connector,
		database.Options{ReconnectWait: 10 * time.Millisecond},
		zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

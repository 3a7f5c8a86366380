// Package testdb opens an isolated, fully migrated in-memory SQLite
// database for tests.
package testdb

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/grocery/config"
	_ "github.com/shashiranjanraj/grocery/database/migrations" // registers the schema
	"github.com/shashiranjanraj/grocery/pkg/database"
	"github.com/shashiranjanraj/grocery/pkg/migration"
)

var seq atomic.Int64

// Open returns a migrated database private to t. It is closed when t ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	// One connection keeps every query on the same in-memory database.
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if _, err := migration.New(db, nil).Run(context.Background()); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}
	return db
}

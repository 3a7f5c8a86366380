// Package migration runs versioned schema migrations and records each
// applied migration with its batch number.
//
// Migrations register themselves from database/migrations:
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// and run through the CLI:
//
//	grocery migrate             // run all pending
//	grocery migrate:rollback    // roll back the last batch
//	grocery migrate:status      // list applied and pending migrations
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/grocery/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration implements.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// ErrNotRegistered is returned by Rollback when a recorded migration has no
// registered implementation.
var ErrNotRegistered = errors.New("migration: not registered")

type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "grocery_migrations" }

type registeredMigration struct {
	name string
	m    Migration
}

var (
	mu       sync.RWMutex
	registry []registeredMigration
)

// Register adds a migration to the global registry. Names are
// timestamp-prefixed and run in lexical order.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, registeredMigration{name: name, m: m})
}

func registered() []registeredMigration {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]registeredMigration, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Status describes one registered migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations. Progress lines go to out.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner over db. A nil out discards progress output.
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&migrationRecord{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ranSet(ctx context.Context) (map[string]migrationRecord, error) {
	var ran []migrationRecord
	if err := r.db.WithContext(ctx).Find(&ran).Error; err != nil {
		return nil, err
	}
	set := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		set[rec.Name] = rec
	}
	return set, nil
}

// Run executes all pending migrations in a single batch and returns how
// many ran.
func (r *Runner) Run(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	ran, err := r.ranSet(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration: fetch applied: %w", err)
	}

	var pending []registeredMigration
	for _, reg := range registered() {
		if _, ok := ran[reg.name]; !ok {
			pending = append(pending, reg)
		}
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch := r.lastBatch(ctx) + 1
	db := r.db.WithContext(ctx)
	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		if err := reg.m.Up(db); err != nil {
			return 0, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := db.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error; err != nil {
			return 0, fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverses every migration of the most recent batch and returns
// how many were rolled back.
func (r *Runner) Rollback(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	last := r.lastBatch(ctx)
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	db := r.db.WithContext(ctx)
	var records []migrationRecord
	if err := db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return 0, err
	}

	impls := make(map[string]Migration)
	for _, reg := range registered() {
		impls[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := impls[rec.Name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrNotRegistered, rec.Name)
		}
		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(db); err != nil {
			return 0, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := db.Delete(&rec).Error; err != nil {
			return 0, err
		}
		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}
	return len(records), nil
}

// Status lists every registered migration and prints a table to out.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	ran, err := r.ranSet(ctx)
	if err != nil {
		return nil, err
	}

	var out []Status
	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 80))
	for _, reg := range registered() {
		st := Status{Name: reg.name}
		if rec, ok := ran[reg.name]; ok {
			st.Ran, st.Batch = true, rec.Batch
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", reg.name, "Pending")
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) int {
	var row struct{ Max int }
	r.db.WithContext(ctx).Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&row)
	return row.Max
}

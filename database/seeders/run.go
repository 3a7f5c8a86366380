// Package seeders fills a fresh database with the default categories and
// the admin account. Each seeder registers itself from init() and must be
// safe to run twice.
//
//	grocery seed
//	grocery seed categories
package seeders

import (
	"fmt"
	"io"
	"slices"

	"gorm.io/gorm"
)

// Func seeds one concern.
type Func func(db *gorm.DB) error

type seeder struct {
	name string
	fn   Func
}

var registry []seeder

// Register adds fn under name. Call it from init().
func Register(name string, fn Func) {
	registry = append(registry, seeder{name: name, fn: fn})
}

// Names lists the registered seeders in run order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, s := range registry {
		names = append(names, s.name)
	}
	return names
}

// Run executes the named seeders, or all of them when names is empty, each
// in its own transaction. It stops at the first failure.
func Run(db *gorm.DB, out io.Writer, names ...string) error {
	for _, n := range names {
		if !slices.Contains(Names(), n) {
			return fmt.Errorf("seeders: unknown seeder %q", n)
		}
	}
	for _, s := range registry {
		if len(names) > 0 && !slices.Contains(names, s.name) {
			continue
		}
		if err := db.Transaction(s.fn); err != nil {
			return fmt.Errorf("seeders: %s: %w", s.name, err)
		}
		fmt.Fprintf(out, "  seeded %s\n", s.name)
	}
	return nil
}

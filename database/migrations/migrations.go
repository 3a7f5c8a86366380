// Package migrations holds the schema migrations. Each file registers its
// migrations from init(); importing the package makes them available to
// the runner.
package migrations

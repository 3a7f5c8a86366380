package app

// pkg/app/commands.go holds the CLI sub-command bodies that only need
// framework packages. cmd/grocery wires them into cobra.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shashiranjanraj/grocery/pkg/migration"
)

var errNoDB = errors.New("app: database not connected")

func (a *Application) migrator(out io.Writer) (*migration.Runner, error) {
	if a.DB == nil {
		return nil, errNoDB
	}
	return migration.New(a.DB, out), nil
}

// Migrate runs all pending migrations.
func (a *Application) Migrate(ctx context.Context, out io.Writer) error {
	m, err := a.migrator(out)
	if err != nil {
		return err
	}
	_, err = m.Run(ctx)
	return err
}

// Rollback reverses the last migration batch.
func (a *Application) Rollback(ctx context.Context, out io.Writer) error {
	m, err := a.migrator(out)
	if err != nil {
		return err
	}
	_, err = m.Rollback(ctx)
	return err
}

// MigrateStatus prints the applied and pending migrations.
func (a *Application) MigrateStatus(ctx context.Context, out io.Writer) error {
	m, err := a.migrator(out)
	if err != nil {
		return err
	}
	_, err = m.Status(ctx)
	return err
}

// RouteList prints every registered route as a table.
func (a *Application) RouteList(out io.Writer) error {
	r, err := a.Router()
	if err != nil {
		return err
	}
	routes := r.Routes()
	if len(routes) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, ri := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return tw.Flush()
}

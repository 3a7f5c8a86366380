// Command grocery runs the shop and its maintenance tasks.
//
//	grocery serve             start the HTTP (and optional gRPC) server
//	grocery migrate           run pending migrations
//	grocery migrate:rollback  roll back the last batch
//	grocery migrate:status    list migrations
//	grocery seed              run the seeders
//	grocery route:list        print the route table
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/shashiranjanraj/grocery/database/migrations"
	_ "github.com/shashiranjanraj/grocery/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "grocery",
	Short:         "Grocery shop server and maintenance CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/grocery/app/routes"
	"github.com/shashiranjanraj/grocery/config"
	"github.com/shashiranjanraj/grocery/pkg/app"
)

var migrateOnBoot bool

// grocery serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if migrateOnBoot {
			if err := a.Migrate(cmd.Context(), cmd.OutOrStdout()); err != nil {
				return err
			}
		}
		return a.Routes(routes.Register).Serve(cmd.Context())
	},
}

// grocery route:list
var routeListCmd = &cobra.Command{
	Use:     "route:list",
	Aliases: []string{"routes"},
	Short:   "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		return app.Bare(cfg).Routes(routes.Register).RouteList(cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnBoot, "migrate", false, "run pending migrations before serving")
}

// Package routes is the shop's route table. Register builds the services
// over the Application's infrastructure and mounts the web pages, the
// JSON API and the admin endpoints.
package routes

import (
	"github.com/shashiranjanraj/grocery/app/controllers"
	"github.com/shashiranjanraj/grocery/app/listeners"
	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/app/schema"
	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/pkg/app"
	"github.com/shashiranjanraj/grocery/pkg/graphql"
	"github.com/shashiranjanraj/grocery/pkg/router"
)

// Services bundles the domain services built for one Application.
type Services struct {
	Auth      *services.AuthService
	Catalog   *services.CatalogService
	Cart      *services.CartService
	Addresses *services.AddressService
}

// NewServices builds the services over a's database, images and events.
func NewServices(a *app.Application) *Services {
	store := repositories.NewStore(a.DB)
	var images services.ImageSaver
	if a.Images != nil {
		images = a.Images
	}
	return &Services{
		Auth:      services.NewAuthService(store, a.Tokens),
		Catalog:   services.NewCatalogService(store, images, a.Events),
		Cart:      services.NewCartService(store, a.Events),
		Addresses: services.NewAddressService(store),
	}
}

// Register is the app.RouteFunc for the whole shop.
func Register(r *router.Router, a *app.Application) error {
	svc := NewServices(a)
	identity := controllers.NewIdentity(svc.Auth)

	listeners.AdminFeed(a.Events, a.Feed)

	catalogSchema, err := schema.Catalog(svc.Catalog)
	if err != nil {
		return err
	}

	RegisterWeb(r, a, svc, identity)
	RegisterAPI(r, svc, identity)

	r.Handle("/graphql", "graphql", graphql.Handler(catalogSchema, a.Config.MaxBodyBytes), identity.Resolve)
	r.Get("/ws/orders", "feed.orders", a.Feed.ServeHTTP, identity.Resolve, controllers.RequireAdminAPI)
	return nil
}

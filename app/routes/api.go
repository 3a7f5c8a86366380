package routes

import (
	"github.com/shashiranjanraj/grocery/app/controllers"
	"github.com/shashiranjanraj/grocery/pkg/ctx"
	"github.com/shashiranjanraj/grocery/pkg/router"
)

// RegisterAPI mounts the JSON API under /api. Catalog reads are public,
// catalog writes need an admin and the cart needs any signed-in user.
func RegisterAPI(r *router.Router, svc *Services, identity *controllers.Identity) {
	products := controllers.NewProductAPI(svc.Catalog)
	categories := controllers.NewCategoryAPI(svc.Catalog)
	tokens := controllers.NewTokenAPI(svc.Auth)
	cart := controllers.NewCartAPI(svc.Cart)
	addresses := controllers.NewAddressAPI(svc.Addresses)

	api := r.Group("/api", identity.Resolve)
	api.Post("/token", "api.token", ctx.Wrap(tokens.Issue))

	api.Get("/products", "api.products.index", ctx.Wrap(products.Index))
	api.Get("/products/{id}", "api.products.show", ctx.Wrap(products.Show))
	api.Get("/categories", "api.categories.index", ctx.Wrap(categories.Index))
	api.Get("/categories/{id}", "api.categories.show", ctx.Wrap(categories.Show))

	admin := api.Group("", controllers.RequireAdminAPI)
	admin.Post("/products", "api.products.store", ctx.Wrap(products.Store))
	admin.Put("/products/{id}", "api.products.update", ctx.Wrap(products.Update))
	admin.Delete("/products/{id}", "api.products.destroy", ctx.Wrap(products.Destroy))
	admin.Post("/categories", "api.categories.store", ctx.Wrap(categories.Store))
	admin.Put("/categories/{id}", "api.categories.update", ctx.Wrap(categories.Update))
	admin.Delete("/categories/{id}", "api.categories.destroy", ctx.Wrap(categories.Destroy))

	user := api.Group("", controllers.RequireLoginAPI)
	user.Get("/me", "api.me", ctx.Wrap(tokens.Me))
	user.Get("/cart", "api.cart.show", ctx.Wrap(cart.Show))
	user.Post("/cart", "api.cart.add", ctx.Wrap(cart.Add))
	user.Delete("/cart/{product_id}", "api.cart.remove", ctx.Wrap(cart.Remove))
	user.Post("/checkout", "api.checkout", ctx.Wrap(cart.Checkout))
	user.Get("/orders", "api.orders.index", ctx.Wrap(cart.Orders))
	user.Get("/orders/{id}", "api.orders.show", ctx.Wrap(cart.Order))
	user.Get("/addresses", "api.addresses.index", ctx.Wrap(addresses.Index))
	user.Post("/addresses", "api.addresses.store", ctx.Wrap(addresses.Store))
	user.Delete("/addresses/{id}", "api.addresses.destroy", ctx.Wrap(addresses.Destroy))
}

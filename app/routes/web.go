package routes

import (
	"github.com/shashiranjanraj/grocery/app/controllers"
	"github.com/shashiranjanraj/grocery/pkg/app"
	"github.com/shashiranjanraj/grocery/pkg/router"
)

// RegisterWeb mounts the HTML pages.
func RegisterWeb(r *router.Router, a *app.Application, svc *Services, identity *controllers.Identity) {
	maxBody := a.Config.MaxBodyBytes
	authC := controllers.NewAuthController(svc.Auth, a.Renderer, maxBody)
	admin := controllers.NewAdminController(svc.Catalog, a.Renderer, maxBody)
	shop := controllers.NewShopController(svc.Catalog, svc.Cart, a.Renderer, maxBody)

	web := r.Group("", identity.Resolve)
	web.Get("/", "home", shop.Home)
	web.Get("/home", "home.alias", shop.Home)

	auth := web.Group("/auth")
	auth.Get("/register", "auth.register", authC.ShowRegister)
	auth.Post("/register", "auth.register.store", authC.Register)
	auth.Get("/admin-login", "auth.admin_login", authC.ShowAdminLogin)
	auth.Post("/admin-login", "auth.admin_login.store", authC.AdminLogin)
	auth.Get("/user-login", "auth.user_login", authC.ShowUserLogin)
	auth.Post("/user-login", "auth.user_login.store", authC.UserLogin)
	auth.Post("/logout", "auth.logout", authC.Logout, controllers.RequireLogin)

	admins := web.Group("", controllers.RequireAdmin)
	admins.Get("/admin-dashboard", "admin.dashboard", admin.Dashboard)
	admins.Get("/add-product", "admin.products.create", admin.ShowAddProduct)
	admins.Post("/add-product", "admin.products.store", admin.AddProduct)
	admins.Get("/edit-product/{id}", "admin.products.edit", admin.ShowEditProduct)
	admins.Post("/edit-product/{id}", "admin.products.update", admin.EditProduct)
	admins.Post("/delete-product/{id}", "admin.products.destroy", admin.DeleteProduct)

	shoppers := web.Group("", controllers.RequireLogin)
	shoppers.Get("/user-dashboard", "shop.dashboard", shop.Dashboard)
	shoppers.Post("/add-to-cart", "shop.cart.add", shop.AddToCart)
	shoppers.Post("/remove-from-cart", "shop.cart.remove", shop.RemoveFromCart)
	shoppers.Get("/cart", "shop.cart", shop.Cart)
	shoppers.Post("/buy", "shop.buy", shop.Buy)
	shoppers.Get("/order-history", "shop.orders", shop.OrderHistory)
}

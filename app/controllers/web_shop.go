package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/pkg/session"
	"github.com/shashiranjanraj/grocery/pkg/view"
)

const (
	shopHome = "/user-dashboard"
	cartPage = "/cart"
)

// ShopController serves the public home page and the shopper flows:
// browsing, the cart, checkout and order history.
type ShopController struct {
	web
	catalog *services.CatalogService
	cart    *services.CartService
}

func NewShopController(catalog *services.CatalogService, cart *services.CartService, render view.Renderer, maxBody int64) *ShopController {
	return &ShopController{web: web{render: render, maxBody: maxBody}, catalog: catalog, cart: cart}
}

func (c *ShopController) Home(w http.ResponseWriter, r *http.Request) {
	c.page(w, r, http.StatusOK, "home", nil)
}

func (c *ShopController) Dashboard(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.ListProducts(r.Context(), repositories.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
	})
	if err != nil {
		c.fail(w, r, err, "/home", "Error loading products. Please try again.")
		return
	}
	c.page(w, r, http.StatusOK, "user_dashboard", map[string]any{"products": products})
}

func (c *ShopController) AddToCart(w http.ResponseWriter, r *http.Request) {
	if err := c.parseForm(w, r); err != nil {
		c.redirect(w, r, shopHome, session.FlashDanger, "Could not read the submitted form.")
		return
	}
	productID, ok := parseID(r.PostFormValue("product_id"))
	if !ok {
		c.redirect(w, r, shopHome, session.FlashWarning, "Product not found.")
		return
	}
	qty := 1
	if raw := r.PostFormValue("quantity"); raw != "" {
		var err error
		if qty, err = formInt(raw); err != nil {
			c.redirect(w, r, shopHome, session.FlashWarning, "The quantity must be an integer.")
			return
		}
	}

	user := CurrentUser(r.Context())
	_, err := c.cart.AddToCart(r.Context(), user.ID, productID, qty)
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrInsufficientStock):
		c.redirect(w, r, shopHome, session.FlashWarning, "Not enough stock available.")
	case errors.Is(err, services.ErrNotFound):
		c.redirect(w, r, shopHome, session.FlashWarning, "Product not found.")
	case errors.As(err, &verr):
		c.redirect(w, r, shopHome, session.FlashWarning, firstMessage(err, "Invalid quantity."))
	case err != nil:
		c.fail(w, r, err, cartPage, "Error adding product to cart. Please try again.")
	default:
		c.redirect(w, r, cartPage, session.FlashSuccess, "Product added to cart!")
	}
}

func (c *ShopController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := c.parseForm(w, r); err != nil {
		c.redirect(w, r, cartPage, session.FlashDanger, "Could not read the submitted form.")
		return
	}
	productID, ok := parseID(r.PostFormValue("product_id"))
	if !ok {
		c.redirect(w, r, cartPage, session.FlashWarning, "That product is not in your cart.")
		return
	}

	err := c.cart.RemoveFromCart(r.Context(), CurrentUser(r.Context()).ID, productID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.redirect(w, r, cartPage, session.FlashWarning, "That product is not in your cart.")
	case err != nil:
		c.fail(w, r, err, cartPage, "Error updating cart. Please try again.")
	default:
		c.redirect(w, r, cartPage, session.FlashSuccess, "Product removed from cart.")
	}
}

func (c *ShopController) Cart(w http.ResponseWriter, r *http.Request) {
	cart, err := c.cart.ViewCart(r.Context(), CurrentUser(r.Context()).ID)
	if err != nil {
		c.fail(w, r, err, shopHome, "Error loading cart. Please try again.")
		return
	}
	c.page(w, r, http.StatusOK, "cart", map[string]any{
		"cart_items":  cart.Lines,
		"total_price": cart.Total,
	})
}

func (c *ShopController) Buy(w http.ResponseWriter, r *http.Request) {
	_, err := c.cart.Checkout(r.Context(), CurrentUser(r.Context()).ID)
	var serr *services.StockError
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		c.redirect(w, r, cartPage, session.FlashWarning, "Your cart is empty.")
	case errors.As(err, &serr):
		c.redirect(w, r, cartPage, session.FlashWarning, "Not enough stock available for "+serr.Name+".")
	case err != nil:
		c.fail(w, r, err, cartPage, "Error completing purchase. Please try again.")
	default:
		c.redirect(w, r, "/order-history", session.FlashSuccess, "Purchase successful!")
	}
}

func (c *ShopController) OrderHistory(w http.ResponseWriter, r *http.Request) {
	items, err := c.cart.OrderHistory(r.Context(), CurrentUser(r.Context()).ID)
	if err != nil {
		c.fail(w, r, err, "/home", "Error loading order history. Please try again.")
		return
	}
	c.page(w, r, http.StatusOK, "order_history", map[string]any{"recent_purchases": items})
}

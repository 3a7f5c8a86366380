package controllers

import (
	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/pkg/ctx"
)

// TokenAPI issues bearer tokens for API clients.
type TokenAPI struct {
	auth *services.AuthService
}

func NewTokenAPI(auth *services.AuthService) *TokenAPI {
	return &TokenAPI{auth: auth}
}

type tokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (a *TokenAPI) Issue(c *ctx.Context) {
	var in tokenRequest
	if !c.BindJSON(&in) {
		return
	}
	tok, err := a.auth.IssueToken(c.Context(), in.Email, in.Password)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Created(tok)
}

// Me returns the authenticated caller.
func (a *TokenAPI) Me(c *ctx.Context) {
	c.Success(CurrentUser(c.Context()))
}

// CartAPI exposes the signed-in user's cart, checkout and orders.
type CartAPI struct {
	cart *services.CartService
}

func NewCartAPI(cart *services.CartService) *CartAPI {
	return &CartAPI{cart: cart}
}

type cartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity"`
}

func (a *CartAPI) Show(c *ctx.Context) {
	view, err := a.cart.ViewCart(c.Context(), CurrentUser(c.Context()).ID)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(view)
}

// Add puts a product into the cart; quantity defaults to 1.
func (a *CartAPI) Add(c *ctx.Context) {
	var in cartRequest
	if !c.BindJSON(&in) {
		return
	}
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	line, err := a.cart.AddToCart(c.Context(), CurrentUser(c.Context()).ID, in.ProductID, qty)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(line)
}

func (a *CartAPI) Remove(c *ctx.Context) {
	productID, err := c.ParamUint("product_id")
	if err != nil {
		c.NotFound()
		return
	}
	if err := a.cart.RemoveFromCart(c.Context(), CurrentUser(c.Context()).ID, productID); err != nil {
		apiError(c, err)
		return
	}
	c.NoContent()
}

func (a *CartAPI) Checkout(c *ctx.Context) {
	order, err := a.cart.Checkout(c.Context(), CurrentUser(c.Context()).ID)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Created(order)
}

func (a *CartAPI) Orders(c *ctx.Context) {
	orders, err := a.cart.Orders(c.Context(), CurrentUser(c.Context()).ID)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(orders)
}

func (a *CartAPI) Order(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := a.cart.Order(c.Context(), CurrentUser(c.Context()).ID, id)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(order)
}

// AddressAPI manages the signed-in user's addresses.
type AddressAPI struct {
	addresses *services.AddressService
}

func NewAddressAPI(addresses *services.AddressService) *AddressAPI {
	return &AddressAPI{addresses: addresses}
}

func (a *AddressAPI) Index(c *ctx.Context) {
	out, err := a.addresses.List(c.Context(), CurrentUser(c.Context()).ID)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(out)
}

func (a *AddressAPI) Store(c *ctx.Context) {
	var in services.AddressInput
	if !c.DecodeJSON(&in) {
		return
	}
	addr, err := a.addresses.Add(c.Context(), CurrentUser(c.Context()).ID, in)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Created(addr)
}

func (a *AddressAPI) Destroy(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.addresses.Delete(c.Context(), CurrentUser(c.Context()).ID, id); err != nil {
		apiError(c, err)
		return
	}
	c.NoContent()
}

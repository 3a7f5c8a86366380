package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/app/routes"
	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/config"
	"github.com/shashiranjanraj/grocery/internal/testdb"
	"github.com/shashiranjanraj/grocery/pkg/app"
	"github.com/shashiranjanraj/grocery/pkg/session"
	"github.com/shashiranjanraj/grocery/pkg/storage"
	"github.com/shashiranjanraj/grocery/pkg/testkit"
)

const password = "Secret123!"

type harness struct {
	t       *testing.T
	app     *app.Application
	svc     *routes.Services
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	a := app.Bare(config.Config{
		Env:          "testing",
		SecretKey:    "routes-test-secret",
		MaxBodyBytes: 1 << 20,
	})
	t.Cleanup(func() { _ = a.Close() })
	a.DB = testdb.Open(t)

	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)
	a.UseDisk(disk)

	handler, err := a.Routes(routes.Register).Handler()
	require.NoError(t, err)
	return &harness{t: t, app: a, svc: routes.NewServices(a), handler: handler}
}

func (h *harness) register(email, role string) *models.User {
	h.t.Helper()
	u, err := h.svc.Auth.Register(context.Background(), services.RegisterInput{
		Name: "Test " + role, Email: email, Password: password, Role: role,
	})
	require.NoError(h.t, err)
	return u
}

func (h *harness) token(email string) string {
	h.t.Helper()
	tok, err := h.svc.Auth.IssueToken(context.Background(), email, password)
	require.NoError(h.t, err)
	return tok.AccessToken
}

func (h *harness) product(name, price string, qty int) *models.Product {
	h.t.Helper()
	ctx := context.Background()
	if _, err := h.svc.Catalog.CreateCategory(ctx, services.CategoryInput{Name: "Pantry"}); err != nil {
		require.ErrorIs(h.t, err, services.ErrConflict)
	}
	p := decimal.RequireFromString(price)
	desc, cat := name+" from the pantry", "Pantry"
	out, err := h.svc.Catalog.CreateProduct(ctx, services.ProductInput{
		Name: &name, Description: &desc, Price: &p, Quantity: &qty, Category: &cat,
	}, nil)
	require.NoError(h.t, err)
	return out
}

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func (h *harness) api(method, path, token string, body any) (int, envelope) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// ─── JSON API ─────────────────────────────────────────────────────────────────

func TestAdminAPIScenarios(t *testing.T) {
	h := newHarness(t)
	h.register("admin@example.com", models.RoleAdmin)
	testkit.RunDir(t, h.handler, "testdata/admin",
		testkit.Header("Authorization", "Bearer "+h.token("admin@example.com")))
}

func TestPublicAPIScenarios(t *testing.T) {
	h := newHarness(t)
	testkit.RunDir(t, h.handler, "testdata/public")
}

func TestTokenIssueAndMe(t *testing.T) {
	h := newHarness(t)
	h.register("shopper@example.com", models.RoleUser)

	code, env := h.api(http.MethodPost, "/api/token", "", map[string]string{
		"email": "  Shopper@Example.com ", "password": password,
	})
	require.Equal(t, http.StatusCreated, code)
	tok := decode[services.Token](t, env.Data)
	assert.Equal(t, "Bearer", tok.TokenType)
	require.NotEmpty(t, tok.AccessToken)

	code, env = h.api(http.MethodGet, "/api/me", tok.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	me := decode[models.User](t, env.Data)
	assert.Equal(t, "shopper@example.com", me.Email)
	assert.Equal(t, models.RoleUser, me.Role)
}

func TestShopperCannotWriteCatalog(t *testing.T) {
	h := newHarness(t)
	h.register("shopper@example.com", models.RoleUser)
	tok := h.token("shopper@example.com")

	code, env := h.api(http.MethodPost, "/api/categories", tok, map[string]string{"name": "Dairy"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Forbidden", env.Message)

	code, _ = h.api(http.MethodDelete, "/api/products/1", tok, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAPIProductBodyErrors(t *testing.T) {
	h := newHarness(t)
	h.register("admin@example.com", models.RoleAdmin)
	tok := h.token("admin@example.com")
	h.product("Seed", "1.00", 1)

	code, env := h.api(http.MethodPost, "/api/products", tok, map[string]any{
		"name": "Apple", "description": "Crisp", "price": "2.49", "quantity": "ten", "category": "Pantry",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "The quantity must be an integer.", env.Errors["quantity"])

	code, env = h.api(http.MethodPost, "/api/products", tok, map[string]any{
		"name": "Apple", "description": strings.Repeat("a", 2<<20), "price": "2.49", "quantity": 3, "category": "Pantry",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, "request body too large")

	products, err := h.svc.Catalog.ListProducts(context.Background(), repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestAPICartAndCheckout(t *testing.T) {
	h := newHarness(t)
	h.register("shopper@example.com", models.RoleUser)
	h.register("other@example.com", models.RoleUser)
	tok := h.token("shopper@example.com")
	apple := h.product("Apple", "0.50", 10)
	bread := h.product("Bread", "2.25", 3)

	code, _ := h.api(http.MethodPost, "/api/cart", tok, map[string]any{"product_id": apple.ID, "quantity": 4})
	require.Equal(t, http.StatusOK, code)
	code, _ = h.api(http.MethodPost, "/api/cart", tok, map[string]any{"product_id": bread.ID})
	require.Equal(t, http.StatusOK, code)
	code, _ = h.api(http.MethodPost, "/api/cart", tok, map[string]any{"product_id": bread.ID})
	require.Equal(t, http.StatusOK, code)

	// merged quantity would exceed stock
	code, env := h.api(http.MethodPost, "/api/cart", tok, map[string]any{"product_id": bread.ID, "quantity": 2})
	assert.Equal(t, http.StatusConflict, code, env.Message)

	code, env = h.api(http.MethodPost, "/api/cart", tok, map[string]any{"product_id": 999})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = h.api(http.MethodGet, "/api/cart", tok, nil)
	require.Equal(t, http.StatusOK, code)
	cart := decode[services.CartView](t, env.Data)
	require.Len(t, cart.Lines, 2)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("6.50")), "total %s", cart.Total)

	code, env = h.api(http.MethodPost, "/api/checkout", tok, nil)
	require.Equal(t, http.StatusCreated, code)
	order := decode[models.Order](t, env.Data)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("6.50")))
	assert.Len(t, order.Items, 2)

	code, env = h.api(http.MethodPost, "/api/checkout", tok, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Your cart is empty.", env.Message)

	code, env = h.api(http.MethodGet, "/api/orders", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Order](t, env.Data), 1)

	path := "/api/orders/" + string(mustJSON(t, order.ID))
	code, env = h.api(http.MethodGet, path, tok, nil)
	require.Equal(t, http.StatusOK, code)
	detail := decode[services.OrderDetail](t, env.Data)
	require.Len(t, detail.Payments, 1)
	assert.Equal(t, models.PaymentStatusPending, detail.Payments[0].Status)

	code, _ = h.api(http.MethodGet, path, h.token("other@example.com"), nil)
	assert.Equal(t, http.StatusNotFound, code)

	stocked, err := h.svc.Catalog.GetProduct(context.Background(), bread.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stocked.Quantity)
}

func TestAPIRemoveFromCart(t *testing.T) {
	h := newHarness(t)
	h.register("shopper@example.com", models.RoleUser)
	tok := h.token("shopper@example.com")
	apple := h.product("Apple", "0.50", 10)

	code, _ := h.api(http.MethodPost, "/api/cart", tok, map[string]any{"product_id": apple.ID})
	require.Equal(t, http.StatusOK, code)

	path := "/api/cart/" + string(mustJSON(t, apple.ID))
	code, env := h.api(http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, env.Data)

	code, _ = h.api(http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPIAddresses(t *testing.T) {
	h := newHarness(t)
	h.register("shopper@example.com", models.RoleUser)
	tok := h.token("shopper@example.com")

	code, env := h.api(http.MethodPost, "/api/addresses", tok, map[string]any{"city": "Pune"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "address_line1")

	code, env = h.api(http.MethodPost, "/api/addresses", tok, map[string]any{
		"address_line1": "12 Market Road",
		"city":          "Pune",
		"state":         "MH",
		"postal_code":   "411001",
		"country":       "India",
		"is_default":    true,
	})
	require.Equal(t, http.StatusCreated, code)
	addr := decode[models.Address](t, env.Data)
	assert.True(t, addr.IsDefault)

	code, env = h.api(http.MethodGet, "/api/addresses", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Address](t, env.Data), 1)

	path := "/api/addresses/" + string(mustJSON(t, addr.ID))
	h.register("other@example.com", models.RoleUser)
	code, _ = h.api(http.MethodDelete, path, h.token("other@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.api(http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = h.api(http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGraphQLCatalog(t *testing.T) {
	h := newHarness(t)
	h.product("Apple", "2.49", 0)

	body := strings.NewReader(`{"query":"{ products(category: \"Pantry\") { name price in_stock } categories { name } }"}`)
	req := httptest.NewRequest(http.MethodPost, "/graphql", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data struct {
			Products []struct {
				Name    string `json:"name"`
				Price   string `json:"price"`
				InStock bool   `json:"in_stock"`
			} `json:"products"`
			Categories []struct {
				Name string `json:"name"`
			} `json:"categories"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	require.Empty(t, out.Errors)
	require.Len(t, out.Data.Products, 1)
	assert.Equal(t, "2.49", out.Data.Products[0].Price)
	assert.False(t, out.Data.Products[0].InStock)
	require.Len(t, out.Data.Categories, 1)
	assert.Equal(t, "Pantry", out.Data.Categories[0].Name)
}

func TestRouteList(t *testing.T) {
	var buf bytes.Buffer
	a := app.Bare(config.Config{SecretKey: "route-list"})
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.Routes(routes.Register).RouteList(&buf))

	out := buf.String()
	for _, name := range []string{"api.products.index", "shop.buy", "auth.user_login", "graphql", "feed.orders", "healthz", "auth.logout"} {
		assert.Contains(t, out, name)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// ─── HTML pages ───────────────────────────────────────────────────────────────

type page struct {
	Name    string            `json:"page"`
	Data    map[string]any    `json:"data"`
	User    *models.User      `json:"user"`
	Flashes []session.Message `json:"flashes"`
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (h *harness) browser() *browser {
	h.t.Helper()
	srv := httptest.NewServer(h.handler)
	h.t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(h.t, err)
	return &browser{t: h.t, base: srv.URL, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

// post submits a form and returns the redirect target.
func (b *browser) post(path string, form url.Values) string {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode, "POST %s", path)
	return resp.Header.Get("Location")
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	return resp
}

// redirect fetches path and expects a redirect.
func (b *browser) redirect(path string) string {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	resp := b.do(req)
	defer resp.Body.Close()
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode, "GET %s", path)
	return resp.Header.Get("Location")
}

func (b *browser) get(path string) (int, page) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	resp := b.do(req)
	defer resp.Body.Close()
	var p page
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&p))
	return resp.StatusCode, p
}

func flashTexts(p page) []string {
	out := make([]string, 0, len(p.Flashes))
	for _, f := range p.Flashes {
		out = append(out, f.Text)
	}
	return out
}

func TestWebShopperJourney(t *testing.T) {
	h := newHarness(t)
	apple := h.product("Apple", "0.50", 5)
	b := h.browser()
	productID := string(mustJSON(t, apple.ID))

	assert.Equal(t, "/auth/user-login?next=%2Fcart", b.redirect("/cart"))
	_, p := b.get("/auth/user-login?next=%2Fcart")
	assert.Equal(t, "user_login", p.Name)
	assert.Contains(t, flashTexts(p), "Please log in to access this page.")

	assert.Equal(t, "/auth/register", b.post("/auth/register", url.Values{
		"name": {"Sam"}, "email": {"sam@example.com"}, "password": {"weak"}, "role": {models.RoleUser},
	}))
	_, p = b.get("/auth/register")
	require.Len(t, p.Flashes, 1)
	assert.Equal(t, session.FlashDanger, p.Flashes[0].Category)

	assert.Equal(t, "/auth/user-login", b.post("/auth/register", url.Values{
		"name": {"Sam"}, "email": {"sam@example.com"}, "password": {password}, "role": {models.RoleUser},
	}))
	_, p = b.get("/auth/user-login")
	assert.Contains(t, flashTexts(p), "User account created successfully! You can now log in.")

	assert.Equal(t, "/auth/user-login", b.post("/auth/user-login", url.Values{
		"email": {"sam@example.com"}, "password": {"Wrong123!"},
	}))
	_, p = b.get("/auth/user-login")
	assert.Contains(t, flashTexts(p), "Invalid email or password.")

	assert.Equal(t, "/cart", b.post("/auth/user-login", url.Values{
		"email": {"SAM@example.com"}, "password": {password}, "next": {"/cart"},
	}))

	assert.Equal(t, "/user-dashboard", b.post("/add-to-cart", url.Values{"product_id": {productID}, "quantity": {"9"}}))
	_, p = b.get("/user-dashboard")
	assert.Equal(t, "user_dashboard", p.Name)
	assert.Contains(t, flashTexts(p), "Not enough stock available.")
	require.NotNil(t, p.User)
	assert.Equal(t, "sam@example.com", p.User.Email)

	for _, qty := range []string{"0x2", "1e1", "2.5"} {
		assert.Equal(t, "/user-dashboard", b.post("/add-to-cart", url.Values{"product_id": {productID}, "quantity": {qty}}), qty)
		_, p = b.get("/user-dashboard")
		assert.Contains(t, flashTexts(p), "The quantity must be an integer.", qty)
	}
	assert.Equal(t, "/user-dashboard", b.post("/add-to-cart", url.Values{"product_id": {"0x" + productID}}))
	_, p = b.get("/user-dashboard")
	assert.Contains(t, flashTexts(p), "Product not found.")

	assert.Equal(t, "/cart", b.post("/add-to-cart", url.Values{"product_id": {productID}, "quantity": {" 2 "}}))
	code, p := b.get("/cart")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cart", p.Name)
	assert.Contains(t, flashTexts(p), "Product added to cart!")
	total, ok := p.Data["total_price"].(string)
	require.True(t, ok, "total_price %v", p.Data["total_price"])
	assert.True(t, decimal.RequireFromString(total).Equal(decimal.NewFromInt(1)), "total %s", total)

	assert.Equal(t, "/order-history", b.post("/buy", nil))
	_, p = b.get("/order-history")
	assert.Equal(t, "order_history", p.Name)
	assert.Contains(t, flashTexts(p), "Purchase successful!")
	assert.Len(t, p.Data["recent_purchases"], 1)

	assert.Equal(t, "/cart", b.post("/buy", nil))
	_, p = b.get("/cart")
	assert.Contains(t, flashTexts(p), "Your cart is empty.")

	assert.Equal(t, "/home", b.redirect("/admin-dashboard"))
	_, p = b.get("/home")
	assert.Contains(t, flashTexts(p), "Access restricted to admins only.")

	resp, err := b.client.Get(b.base + "/auth/logout")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "/home", b.post("/auth/logout", nil))
	_, p = b.get("/home")
	assert.Equal(t, "home", p.Name)
	assert.Nil(t, p.User)
	assert.Contains(t, flashTexts(p), "Logged out successfully!")
	assert.Equal(t, "/auth/user-login?next=%2Forder-history", b.redirect("/order-history"))
}

func TestWebAdminLoginRules(t *testing.T) {
	h := newHarness(t)
	h.register("admin@example.com", models.RoleAdmin)
	h.register("shopper@example.com", models.RoleUser)
	b := h.browser()

	assert.Equal(t, "/auth/admin-login", b.post("/auth/user-login", url.Values{
		"email": {"admin@example.com"}, "password": {password},
	}))
	_, p := b.get("/auth/admin-login")
	assert.Contains(t, flashTexts(p), "Admins should use the admin login page.")

	assert.Equal(t, "/auth/admin-login", b.post("/auth/admin-login", url.Values{
		"email": {"shopper@example.com"}, "password": {password},
	}))
	_, p = b.get("/auth/admin-login")
	assert.Contains(t, flashTexts(p), "Invalid email or password.")

	assert.Equal(t, "/admin-dashboard", b.post("/auth/admin-login", url.Values{
		"email": {"admin@example.com"}, "password": {password},
	}))
	code, p := b.get("/admin-dashboard")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin_dashboard", p.Name)
	assert.Contains(t, flashTexts(p), "Admin login successful!")
}

// tinyPNG is a PNG signature followed by an IHDR chunk header.
var tinyPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestWebAdminManagesProducts(t *testing.T) {
	h := newHarness(t)
	h.register("admin@example.com", models.RoleAdmin)
	_, err := h.svc.Catalog.CreateCategory(context.Background(), services.CategoryInput{Name: "Fruits"})
	require.NoError(t, err)

	b := h.browser()
	require.Equal(t, "/admin-dashboard", b.post("/auth/admin-login", url.Values{
		"email": {"admin@example.com"}, "password": {password},
	}))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"name": "Apple", "description": "Crisp", "price": "2.49", "quantity": "12", "category": "Fruits",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("image", "apple.png")
	require.NoError(t, err)
	_, err = part.Write(tinyPNG)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, b.base+"/add-product", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := b.do(req)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin-dashboard", resp.Header.Get("Location"))

	products, err := h.svc.Catalog.ListProducts(context.Background(), repositories.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	apple := products[0]
	require.NotNil(t, apple.Image)
	assert.True(t, strings.HasSuffix(*apple.Image, ".png"))

	img, err := b.client.Get(b.base + "/storage/" + app.ImageDir + "/" + *apple.Image)
	require.NoError(t, err)
	img.Body.Close()
	assert.Equal(t, http.StatusOK, img.StatusCode)

	for _, dir := range []string{"/storage/", "/storage/" + app.ImageDir + "/"} {
		listing, err := b.client.Get(b.base + dir)
		require.NoError(t, err)
		listing.Body.Close()
		assert.Equal(t, http.StatusNotFound, listing.StatusCode, dir)
	}

	id := string(mustJSON(t, apple.ID))
	req, err = http.NewRequest(http.MethodPost, b.base+"/add-product",
		strings.NewReader(url.Values{"name": {"Pear"}, "price": {"abc"}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp = b.do(req)
	var p page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "add_product", p.Name)
	formErrs, ok := p.Data["errors"].(map[string]any)
	require.True(t, ok, "errors %v", p.Data["errors"])
	assert.Equal(t, "The price must be a number.", formErrs["price"])
	assert.Equal(t, "The description field is required.", formErrs["description"])
	assert.Contains(t, formErrs, "quantity")
	assert.Contains(t, formErrs, "category")
	assert.NotContains(t, formErrs, "name")

	assert.Equal(t, "/admin-dashboard", b.post("/edit-product/"+id, url.Values{"quantity": {"3"}}))
	got, err := h.svc.Catalog.GetProduct(context.Background(), apple.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, "Apple", got.Name)

	code, p := b.get("/edit-product/999")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", p.Name)

	assert.Equal(t, "/admin-dashboard", b.post("/delete-product/"+id, nil))
	_, p = b.get("/admin-dashboard")
	assert.Contains(t, flashTexts(p), "Product deleted successfully!")

	assert.Equal(t, "/admin-dashboard", b.post("/delete-product/"+id, nil))
	_, p = b.get("/admin-dashboard")
	assert.Contains(t, flashTexts(p), "Product not found.")
}

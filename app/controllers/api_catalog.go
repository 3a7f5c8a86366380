package controllers

import (
	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/pkg/ctx"
)

// ProductAPI serves /api/products. Reads are public; writes require an
// admin.
type ProductAPI struct {
	catalog *services.CatalogService
}

func NewProductAPI(catalog *services.CatalogService) *ProductAPI {
	return &ProductAPI{catalog: catalog}
}

// Index lists products, optionally filtered by ?category= and ?q=.
func (a *ProductAPI) Index(c *ctx.Context) {
	products, err := a.catalog.ListProducts(c.Context(), repositories.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
	})
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(products)
}

func (a *ProductAPI) Show(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := a.catalog.GetProduct(c.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(p)
}

func (a *ProductAPI) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.DecodeJSON(&in) {
		return
	}
	p, err := a.catalog.CreateProduct(c.Context(), in, nil)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Created(p)
}

// Update applies a partial update; absent fields keep their value.
func (a *ProductAPI) Update(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.DecodeJSON(&in) {
		return
	}
	p, err := a.catalog.UpdateProduct(c.Context(), id, in, nil)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(p)
}

func (a *ProductAPI) Destroy(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.catalog.DeleteProduct(c.Context(), id); err != nil {
		apiError(c, err)
		return
	}
	c.NoContent()
}

// CategoryAPI serves /api/categories.
type CategoryAPI struct {
	catalog *services.CatalogService
}

func NewCategoryAPI(catalog *services.CatalogService) *CategoryAPI {
	return &CategoryAPI{catalog: catalog}
}

func (a *CategoryAPI) Index(c *ctx.Context) {
	categories, err := a.catalog.ListCategories(c.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(categories)
}

func (a *CategoryAPI) Show(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	cat, err := a.catalog.GetCategory(c.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(cat)
}

func (a *CategoryAPI) Store(c *ctx.Context) {
	var in services.CategoryInput
	if !c.DecodeJSON(&in) {
		return
	}
	cat, err := a.catalog.CreateCategory(c.Context(), in)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Created(cat)
}

func (a *CategoryAPI) Update(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in services.CategoryInput
	if !c.DecodeJSON(&in) {
		return
	}
	cat, err := a.catalog.UpdateCategory(c.Context(), id, in)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Success(cat)
}

func (a *CategoryAPI) Destroy(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.catalog.DeleteCategory(c.Context(), id); err != nil {
		apiError(c, err)
		return
	}
	c.NoContent()
}

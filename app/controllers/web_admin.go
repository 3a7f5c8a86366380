package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/app/services"
	"github.com/shashiranjanraj/grocery/pkg/session"
	"github.com/shashiranjanraj/grocery/pkg/view"
	"github.com/shopspring/decimal"
)

const adminHome = "/admin-dashboard"

// AdminController serves the admin dashboard and the product forms.
// Every route sits behind RequireAdmin.
type AdminController struct {
	web
	catalog *services.CatalogService
}

func NewAdminController(catalog *services.CatalogService, render view.Renderer, maxBody int64) *AdminController {
	return &AdminController{web: web{render: render, maxBody: maxBody}, catalog: catalog}
}

func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.ListProducts(r.Context(), repositories.ProductFilter{})
	if err != nil {
		c.fail(w, r, err, "/home", "Error fetching products. Please try again later.")
		return
	}
	c.page(w, r, http.StatusOK, "admin_dashboard", map[string]any{"products": products})
}

// productForm is what the add/edit pages render.
type productForm struct {
	Product    any               `json:"product,omitempty"`
	Categories any               `json:"categories"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func (c *AdminController) formPage(w http.ResponseWriter, r *http.Request, status int, name string, form productForm) {
	categories, err := c.catalog.ListCategories(r.Context())
	if err != nil {
		c.fail(w, r, err, adminHome, "Error loading categories. Please try again.")
		return
	}
	form.Categories = categories
	c.page(w, r, status, name, form)
}

func (c *AdminController) ShowAddProduct(w http.ResponseWriter, r *http.Request) {
	c.formPage(w, r, http.StatusOK, "add_product", productForm{})
}

func (c *AdminController) AddProduct(w http.ResponseWriter, r *http.Request) {
	if err := c.parseForm(w, r); err != nil {
		c.redirect(w, r, "/add-product", session.FlashDanger, "Could not read the submitted form.")
		return
	}
	in := productInput(r)
	upload, closeUpload := formUpload(r)
	defer closeUpload()

	_, err := c.catalog.CreateProduct(r.Context(), in, upload)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.formPage(w, r, http.StatusBadRequest, "add_product", productForm{Errors: verr.Fields})
	case err != nil:
		c.fail(w, r, err, "/add-product", "Error adding product. Please try again.")
	default:
		c.redirect(w, r, adminHome, session.FlashSuccess, "Product added successfully!")
	}
}

func (c *AdminController) ShowEditProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	p, err := c.catalog.GetProduct(r.Context(), id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.notFound(w, r)
	case err != nil:
		c.fail(w, r, err, adminHome, "Error loading product. Please try again.")
	default:
		c.formPage(w, r, http.StatusOK, "edit_product", productForm{Product: p})
	}
}

func (c *AdminController) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	if err := c.parseForm(w, r); err != nil {
		c.redirect(w, r, r.URL.Path, session.FlashDanger, "Could not read the submitted form.")
		return
	}
	in := productInput(r)
	upload, closeUpload := formUpload(r)
	defer closeUpload()

	_, err := c.catalog.UpdateProduct(r.Context(), id, in, upload)
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.notFound(w, r)
	case errors.As(err, &verr):
		c.formPage(w, r, http.StatusBadRequest, "edit_product", productForm{Product: map[string]uint{"id": id}, Errors: verr.Fields})
	case err != nil:
		c.fail(w, r, err, r.URL.Path, "Error updating product. Please try again.")
	default:
		c.redirect(w, r, adminHome, session.FlashSuccess, "Product updated successfully!")
	}
}

func (c *AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	err := c.catalog.DeleteProduct(r.Context(), id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.redirect(w, r, adminHome, session.FlashWarning, "Product not found.")
	case err != nil:
		c.fail(w, r, err, adminHome, "Error deleting product. Please try again.")
	default:
		c.redirect(w, r, adminHome, session.FlashSuccess, "Product deleted successfully!")
	}
}

// productInput maps the posted form onto a ProductInput. Only fields
// present in the form are set, so an edit form may omit fields. Numbers
// that do not parse are left absent and recorded in Unparsed.
func productInput(r *http.Request) services.ProductInput {
	in := services.ProductInput{
		Name:            formValue(r, "name"),
		Description:     formValue(r, "description"),
		Category:        formValue(r, "category"),
		ManufactureDate: formValue(r, "manufacture_date"),
		ExpiryDate:      formValue(r, "expiry_date"),
	}
	errs := map[string]string{}
	if v := formValue(r, "price"); v != nil && *v != "" {
		d, err := decimal.NewFromString(*v)
		if err != nil {
			errs["price"] = "The price must be a number."
		} else {
			in.Price = &d
		}
	}
	if v := formValue(r, "quantity"); v != nil && *v != "" {
		n, err := formInt(*v)
		if err != nil {
			errs["quantity"] = "The quantity must be an integer."
		} else {
			in.Quantity = &n
		}
	}
	if len(errs) > 0 {
		in.Unparsed = errs
	}
	return in
}

// formUpload returns the "image" file part, if one was sent.
func formUpload(r *http.Request) (*services.Upload, func()) {
	file, hdr, err := r.FormFile("image")
	if err != nil || hdr.Filename == "" {
		return nil, func() {}
	}
	return &services.Upload{Filename: hdr.Filename, Body: file}, func() { _ = file.Close() }
}

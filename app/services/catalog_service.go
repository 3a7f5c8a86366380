package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/pkg/event"
	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/shashiranjanraj/grocery/pkg/validate"
)

// ImageSaver stores uploaded product images and returns their reference.
type ImageSaver interface {
	Save(ctx context.Context, r io.Reader, filename string) (string, error)
	Delete(ctx context.Context, name string) error
}

// Upload is an image file submitted with a product form.
type Upload struct {
	Filename string
	Body     io.Reader
}

// ProductInput is the product payload for create and partial update. A
// nil field is absent; on update only present fields are validated and
// applied.
type ProductInput struct {
	Name            *string          `json:"name" validate:"required,max=100"`
	Description     *string          `json:"description" validate:"required,max=500"`
	Price           *decimal.Decimal `json:"price" validate:"required,gte=0,decimals=2"`
	Quantity        *int             `json:"quantity" validate:"required,gte=0"`
	Category        *string          `json:"category" validate:"required,max=50"`
	ManufactureDate *string          `json:"manufacture_date" validate:"nullable,date"`
	ExpiryDate      *string          `json:"expiry_date" validate:"nullable,date"`
	// Image is an existing stored reference. Uploads go through Upload.
	Image *string `json:"image" validate:"nullable,max=255"`
	// Unparsed holds messages for submitted values that could not be
	// converted, keyed by field. They are reported with the other
	// validation failures.
	Unparsed map[string]string `json:"-"`
}

// present lists the JSON names of the fields set on in.
func (in *ProductInput) present() map[string]bool {
	return map[string]bool{
		"name":             in.Name != nil,
		"description":      in.Description != nil,
		"price":            in.Price != nil,
		"quantity":         in.Quantity != nil,
		"category":         in.Category != nil,
		"manufacture_date": in.ManufactureDate != nil,
		"expiry_date":      in.ExpiryDate != nil,
		"image":            in.Image != nil,
	}
}

// normalize trims strings and turns blank optional values into absent ones.
func (in *ProductInput) normalize() {
	for _, s := range []*string{in.Name, in.Description, in.Category} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	blankToNil := func(p **string) {
		if *p != nil && strings.TrimSpace(**p) == "" {
			*p = nil
		}
	}
	blankToNil(&in.ManufactureDate)
	blankToNil(&in.ExpiryDate)
	blankToNil(&in.Image)
}

// CategoryInput is the category payload.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

// CatalogService manages products and categories.
type CatalogService struct {
	store  *repositories.Store
	images ImageSaver
	events *event.Dispatcher
}

// NewCatalogService wires the service. images and events may be nil.
func NewCatalogService(store *repositories.Store, images ImageSaver, events *event.Dispatcher) *CatalogService {
	return &CatalogService{store: store, images: images, events: events}
}

// ─── Products ─────────────────────────────────────────────────────────────────

// ListProducts returns the products matching f, oldest first.
func (s *CatalogService) ListProducts(ctx context.Context, f repositories.ProductFilter) ([]models.Product, error) {
	products, err := s.store.Products.All(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("services: list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.store.Products.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("services: get product: %w", err)
	}
	return p, nil
}

// CreateProduct validates in and stores a new product. A failed image
// upload is logged and the product is created without an image.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, upload *Upload) (*models.Product, error) {
	in.normalize()
	mfg, exp, dateErrs := parseDates(in.ManufactureDate, in.ExpiryDate)

	fields := unparsed(in)
	mergeMissing(fields, validate.All(&in,
		validate.DateAfter("expiry_date", exp, mfg, "manufacture_date"),
	))
	mergeMissing(fields, dateErrs)
	if err := invalid(fields); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:            *in.Name,
		Description:     *in.Description,
		Price:           *in.Price,
		Quantity:        *in.Quantity,
		ManufactureDate: mfg,
		ExpiryDate:      exp,
		Image:           in.Image,
	}
	if err := s.linkCategory(ctx, p, *in.Category); err != nil {
		return nil, err
	}
	if name := s.saveImage(ctx, upload); name != nil {
		p.Image = name
	}

	if err := s.store.Products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("services: create product: %w", err)
	}
	logger.WithCtx(ctx).Info("product created", "product_id", p.ID)
	s.events.Fire(event.ProductChanged, p)
	return p, nil
}

// UpdateProduct applies the present fields of in to product id. The
// expiry/manufacture order is checked against the merged result.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput, upload *Upload) (*models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	in.normalize()
	mfg, exp, dateErrs := parseDates(in.ManufactureDate, in.ExpiryDate)
	if in.ManufactureDate == nil {
		mfg = p.ManufactureDate
	}
	if in.ExpiryDate == nil {
		exp = p.ExpiryDate
	}

	present := in.present()
	fields := unparsed(in)
	for field, msg := range validate.Struct(&in) {
		if present[field] {
			fields[field] = msg
		}
	}
	mergeMissing(fields, dateErrs)
	if _, bad := fields["expiry_date"]; !bad {
		for _, fe := range validate.DateAfter("expiry_date", exp, mfg, "manufacture_date")() {
			fields[fe.Field] = fe.Message
		}
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}

	previous := p.Image

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Category != nil {
		if err := s.linkCategory(ctx, p, *in.Category); err != nil {
			return nil, err
		}
	}
	if in.Image != nil {
		p.Image = in.Image
	}
	p.ManufactureDate, p.ExpiryDate = mfg, exp

	uploaded := s.saveImage(ctx, upload)
	if uploaded != nil {
		p.Image = uploaded
	}

	if err := s.store.Products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("services: update product: %w", err)
	}
	if uploaded != nil && previous != nil {
		s.dropImage(ctx, *previous)
	}
	s.events.Fire(event.ProductChanged, p)
	return p, nil
}

// DeleteProduct removes the product together with its cart lines and
// order items.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("services: delete product: %w", err)
	}
	if p.Image != nil {
		s.dropImage(ctx, *p.Image)
	}
	logger.WithCtx(ctx).Info("product deleted", "product_id", id)
	s.events.Fire(event.ProductDeleted, p)
	return nil
}

// linkCategory points p at the existing category called name.
func (s *CatalogService) linkCategory(ctx context.Context, p *models.Product, name string) error {
	c, err := s.store.Categories.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return invalid(map[string]string{"category": "The selected category is invalid."})
		}
		return fmt.Errorf("services: find category: %w", err)
	}
	p.Category, p.CategoryID = c.Name, &c.ID
	return nil
}

func (s *CatalogService) saveImage(ctx context.Context, upload *Upload) *string {
	if upload == nil || upload.Body == nil || upload.Filename == "" || s.images == nil {
		return nil
	}
	name, err := s.images.Save(ctx, upload.Body, upload.Filename)
	if err != nil {
		logger.WithCtx(ctx).Warn("product image not saved", "filename", upload.Filename, "error", err)
		return nil
	}
	return &name
}

func (s *CatalogService) dropImage(ctx context.Context, name string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, name); err != nil {
		logger.WithCtx(ctx).Warn("product image not removed", "image", name, "error", err)
	}
}

// parseDates parses the optional dates. Unparseable values are reported
// per field and come back nil.
func parseDates(mfgRaw, expRaw *string) (mfg, exp *time.Time, errs map[string]string) {
	errs = map[string]string{}
	parse := func(field string, raw *string) *time.Time {
		if raw == nil {
			return nil
		}
		t, err := validate.ParseDate(*raw)
		if err != nil {
			errs[field] = fmt.Sprintf("The %s is not a valid date.", field)
			return nil
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	return parse("manufacture_date", mfgRaw), parse("expiry_date", expRaw), errs
}

func unparsed(in ProductInput) map[string]string {
	fields := make(map[string]string, len(in.Unparsed))
	for k, v := range in.Unparsed {
		fields[k] = v
	}
	return fields
}

func mergeMissing(dst, src map[string]string) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// ─── Categories ───────────────────────────────────────────────────────────────

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	out, err := s.store.Categories.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("services: list categories: %w", err)
	}
	return out, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.store.Categories.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("services: get category: %w", err)
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := invalid(validate.Struct(&in)); err != nil {
		return nil, err
	}
	c := &models.Category{Name: in.Name}
	if err := s.store.Categories.Create(ctx, c); err != nil {
		return nil, categoryWriteErr(in.Name, err)
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := invalid(validate.Struct(&in)); err != nil {
		return nil, err
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	if err := s.store.Categories.Update(ctx, c); err != nil {
		return nil, categoryWriteErr(in.Name, err)
	}
	return c, nil
}

// DeleteCategory removes the category. Its products stay and lose the link.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.store.Categories.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("services: delete category: %w", err)
	}
	return nil
}

func categoryWriteErr(name string, err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}
	return fmt.Errorf("services: save category: %w", err)
}

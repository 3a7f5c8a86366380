// Package schema builds the read-only GraphQL view of the catalog.
//
//	{ products(category: "Fruits") { id name price quantity } }
package schema

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/app/services"
	gql "github.com/shashiranjanraj/grocery/pkg/graphql"
)

const dateLayout = "2006-01-02"

func asProduct(src interface{}) *models.Product {
	switch p := src.(type) {
	case models.Product:
		return &p
	case *models.Product:
		return p
	}
	return nil
}

func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// Catalog returns the schema over catalog.
func Catalog(catalog *services.CatalogService) (graphql.Schema, error) {
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"quantity":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			// Decimal prices travel as strings to stay exact.
			"price": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return asProduct(p.Source).Price.StringFixed(2), nil
				},
			},
			"image": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if img := asProduct(p.Source).Image; img != nil {
						return *img, nil
					}
					return nil, nil
				},
			},
			"manufacture_date": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return formatDate(asProduct(p.Source).ManufactureDate), nil
				},
			},
			"expiry_date": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return formatDate(asProduct(p.Source).ExpiryDate), nil
				},
			},
			"in_stock": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return asProduct(p.Source).Quantity > 0, nil
				},
			},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var name string
					switch c := p.Source.(type) {
					case models.Category:
						name = c.Name
					case *models.Category:
						name = c.Name
					}
					return catalog.ListProducts(p.Context, repositories.ProductFilter{Category: name})
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"q":        &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					q, _ := p.Args["q"].(string)
					return catalog.ListProducts(p.Context, repositories.ProductFilter{Category: category, Search: q})
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					product, err := catalog.GetProduct(p.Context, uint(id))
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					return product, err
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.ListCategories(p.Context)
				},
			},
		},
	})

	return gql.NewSchema(query)
}

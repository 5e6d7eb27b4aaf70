package api

import (
	"context"
	"net/url"
	"strconv"
)

// ListProducts returns one page of products filtered by params, e.g. page, limit, search.
func (c *Client) ListProducts(ctx context.Context, params map[string]string) ([]Product, *Pagination, error) {
	result, err := Do[[]Product](ctx, c, Request{Endpoint: ListProducts, Query: params})
	if err != nil {
		return nil, nil, err
	}

	products, err := result.Unwrap()
	if err != nil {
		return nil, nil, err
	}

	return products, result.Pagination, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (Product, error) {
	return Call[Product](ctx, c, Request{Endpoint: GetProduct, PathArgs: []any{id}})
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	return Call[Product](ctx, c, Request{Endpoint: CreateProduct, Body: in})
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error) {
	return Call[Product](ctx, c, Request{Endpoint: UpdateProduct, PathArgs: []any{id}, Body: in})
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	_, err := Call[struct{}](ctx, c, Request{Endpoint: DeleteProduct, PathArgs: []any{id}})
	return err
}

func (c *Client) SearchByBarcode(ctx context.Context, barcode string) (Product, error) {
	return Call[Product](ctx, c, Request{Endpoint: SearchByBarcode, PathArgs: []any{url.PathEscape(barcode)}})
}

func (c *Client) CreateVariant(ctx context.Context, productID int64, in VariantInput) (Variant, error) {
	return Call[Variant](ctx, c, Request{Endpoint: CreateVariant, PathArgs: []any{productID}, Body: in})
}

func (c *Client) UpdateVariantStock(ctx context.Context, variantID int64, in StockUpdate) (Variant, error) {
	return Call[Variant](ctx, c, Request{Endpoint: UpdateVariantStock, PathArgs: []any{variantID}, Body: in})
}

// LowStockProducts returns at most limit products under their minimum stock; limit <= 0 leaves it to the backend.
func (c *Client) LowStockProducts(ctx context.Context, limit int) ([]Product, error) {
	var query map[string]string
	if limit > 0 {
		query = map[string]string{"limit": strconv.Itoa(limit)}
	}

	return Call[[]Product](ctx, c, Request{Endpoint: LowStockProducts, Query: query})
}

func (c *Client) ProductStats(ctx context.Context) (ProductStatsOverview, error) {
	return Call[ProductStatsOverview](ctx, c, Request{Endpoint: ProductStats})
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	return Call[[]Category](ctx, c, Request{Endpoint: ListCategories})
}

func (c *Client) ListBrands(ctx context.Context) ([]Brand, error) {
	return Call[[]Brand](ctx, c, Request{Endpoint: ListBrands})
}

func (c *Client) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	return Call[[]Warehouse](ctx, c, Request{Endpoint: ListWarehouses})
}

// CreateProductImages registers uploaded image URLs with a product.
func (c *Client) CreateProductImages(ctx context.Context, in ProductImagesInput) ([]ProductImage, error) {
	return Call[[]ProductImage](ctx, c, Request{Endpoint: CreateProductImages, Body: in})
}

package api

import (
	"fmt"
	"net/http"
)

// Endpoint is a backend operation. Path may hold fmt verbs filled by Request.PathArgs.
type Endpoint struct {
	Name   string
	Method string
	Path   string
}

func (e Endpoint) path(args ...any) string {
	if len(args) == 0 {
		return e.Path
	}

	return fmt.Sprintf(e.Path, args...)
}

var (
	ListProducts        = Endpoint{Name: "ListProducts", Method: http.MethodGet, Path: "/api/v1/products"}
	GetProduct          = Endpoint{Name: "GetProduct", Method: http.MethodGet, Path: "/api/v1/products/%d"}
	CreateProduct       = Endpoint{Name: "CreateProduct", Method: http.MethodPost, Path: "/api/v1/products"}
	UpdateProduct       = Endpoint{Name: "UpdateProduct", Method: http.MethodPut, Path: "/api/v1/products/%d"}
	DeleteProduct       = Endpoint{Name: "DeleteProduct", Method: http.MethodDelete, Path: "/api/v1/products/%d"}
	SearchByBarcode     = Endpoint{Name: "SearchByBarcode", Method: http.MethodGet, Path: "/api/v1/products/barcode/%s"}
	CreateVariant       = Endpoint{Name: "CreateVariant", Method: http.MethodPost, Path: "/api/v1/products/%d/variantes"}
	UpdateVariantStock  = Endpoint{Name: "UpdateVariantStock", Method: http.MethodPut, Path: "/api/v1/products/variantes/%d/stock"}
	LowStockProducts    = Endpoint{Name: "LowStockProducts", Method: http.MethodGet, Path: "/api/v1/products/stats/low-stock"}
	ProductStats        = Endpoint{Name: "ProductStats", Method: http.MethodGet, Path: "/api/v1/products/stats/overview"}
	ListCategories      = Endpoint{Name: "ListCategories", Method: http.MethodGet, Path: "/api/categories"}
	ListBrands          = Endpoint{Name: "ListBrands", Method: http.MethodGet, Path: "/api/brands"}
	ListWarehouses      = Endpoint{Name: "ListWarehouses", Method: http.MethodGet, Path: "/api/warehouses"}
	ListRoles           = Endpoint{Name: "ListRoles", Method: http.MethodGet, Path: "/api/v1/roles"}
	GetRole             = Endpoint{Name: "GetRole", Method: http.MethodGet, Path: "/api/v1/roles/%d"}
	ListPermissions     = Endpoint{Name: "ListPermissions", Method: http.MethodGet, Path: "/api/v1/roles/permissions"}
	CreateRole          = Endpoint{Name: "CreateRole", Method: http.MethodPost, Path: "/api/v1/roles"}
	UpdateRole          = Endpoint{Name: "UpdateRole", Method: http.MethodPut, Path: "/api/v1/roles/%d"}
	DeleteRole          = Endpoint{Name: "DeleteRole", Method: http.MethodDelete, Path: "/api/v1/roles/%d"}
	CreateProductImages = Endpoint{Name: "CreateProductImages", Method: http.MethodPost, Path: "/images"}

	Login        = Endpoint{Name: "Login", Method: http.MethodPost, Path: "/auth/login"}
	Logout       = Endpoint{Name: "Logout", Method: http.MethodPost, Path: "/auth/logout"}
	RefreshToken = Endpoint{Name: "RefreshToken", Method: http.MethodPost, Path: "/auth/refresh-token"}
	Profile      = Endpoint{Name: "Profile", Method: http.MethodGet, Path: "/auth/profile"}
	Register     = Endpoint{Name: "Register", Method: http.MethodPost, Path: "/auth/register"}
)

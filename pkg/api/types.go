package api

import (
	"github.com/shopspring/decimal"
)

type InventoryEntry struct {
	WarehouseID int64  `json:"almacen_id"`
	Name        string `json:"nombre"`
	Quantity    int    `json:"cantidad"`
	Location    string `json:"ubicacion"`
}

type Variant struct {
	ID                int64            `json:"variante_id"`
	ProductID         int64            `json:"producto_id"`
	Size              string           `json:"talla"`
	ColorName         string           `json:"color_nombre"`
	ColorHex          string           `json:"color_hex"`
	Stock             int              `json:"stock_actual"`
	ReservedStock     int              `json:"stock_reservado"`
	AvailableStock    int              `json:"stock_disponible"`
	WarehouseStock    string           `json:"stock_total_almacenes"`
	WarehouseLocation *string          `json:"ubicacion_almacen"`
	Barcode           string           `json:"codigo_barras"`
	Active            bool             `json:"activo"`
	LastReceivedAt    *string          `json:"fecha_ultima_entrada"`
	LastShippedAt     *string          `json:"fecha_ultima_salida"`
	Inventory         []InventoryEntry `json:"inventario,omitempty"`
}

type ProductImage struct {
	ID       int64  `json:"imagen_id,omitempty"`
	URL      string `json:"url"`
	Primary  bool   `json:"es_principal,omitempty"`
	FileName string `json:"nombre_archivo,omitempty"`
}

type Product struct {
	ID                int64               `json:"producto_id"`
	SKU               string              `json:"sku"`
	Name              string              `json:"nombre"`
	Description       string              `json:"descripcion"`
	CategoryID        int64               `json:"categoria_id"`
	BrandID           int64               `json:"marca_id"`
	Gender            string              `json:"genero"`
	Season            string              `json:"temporada"`
	Material          string              `json:"material_principal"`
	Care              string              `json:"cuidados"`
	PurchasePrice     decimal.Decimal     `json:"precio_compra"`
	SalePrice         decimal.Decimal     `json:"precio_venta"`
	TaxPercent        decimal.Decimal     `json:"impuesto_porcentaje"`
	OnPromotion       bool                `json:"es_promocion"`
	DiscountPercent   decimal.Decimal     `json:"porcentaje_descuento"`
	PromotionPrice    decimal.NullDecimal `json:"precio_promocion"`
	PromotionStartsAt *string             `json:"fecha_inicio_promocion"`
	PromotionEndsAt   *string             `json:"fecha_fin_promocion"`
	MinStock          int                 `json:"stock_minimo"`
	MaxStock          int                 `json:"stock_maximo"`
	Active            bool                `json:"activo"`
	CreatedAt         string              `json:"fecha_creacion"`
	UpdatedAt         string              `json:"fecha_actualizacion"`
	Margin            decimal.Decimal     `json:"margen_ganancia"`
	TaxCost           decimal.Decimal     `json:"costo_impuesto"`
	FinalPrice        decimal.Decimal     `json:"precio_final"`
	CategoryName      string              `json:"categoria_nombre"`
	BrandName         string              `json:"marca_nombre"`
	TotalStock        string              `json:"stock_total"`
	Variants          []Variant           `json:"variantes"`
	Images            []ProductImage      `json:"imagenes"`
}

// ProductInput is the body of product creation and update. Nil fields are not sent.
type ProductInput struct {
	SKU             *string          `json:"sku,omitempty"`
	Name            *string          `json:"nombre,omitempty"`
	Description     *string          `json:"descripcion,omitempty"`
	CategoryID      *int64           `json:"categoria_id,omitempty"`
	BrandID         *int64           `json:"marca_id,omitempty"`
	Gender          *string          `json:"genero,omitempty"`
	Season          *string          `json:"temporada,omitempty"`
	Material        *string          `json:"material_principal,omitempty"`
	Care            *string          `json:"cuidados,omitempty"`
	PurchasePrice   *decimal.Decimal `json:"precio_compra,omitempty"`
	SalePrice       *decimal.Decimal `json:"precio_venta,omitempty"`
	TaxPercent      *decimal.Decimal `json:"impuesto_porcentaje,omitempty"`
	OnPromotion     *bool            `json:"es_promocion,omitempty"`
	DiscountPercent *decimal.Decimal `json:"porcentaje_descuento,omitempty"`
	MinStock        *int             `json:"stock_minimo,omitempty"`
	MaxStock        *int             `json:"stock_maximo,omitempty"`
	Active          *bool            `json:"activo,omitempty"`
}

type VariantInput struct {
	Size      string `json:"talla"`
	ColorName string `json:"color_nombre"`
	ColorHex  string `json:"color_hex,omitempty"`
	Barcode   string `json:"codigo_barras,omitempty"`
	Stock     int    `json:"stock_actual"`
	Active    *bool  `json:"activo,omitempty"`
}

type StockUpdate struct {
	WarehouseID int64  `json:"almacen_id,omitempty"`
	Quantity    int    `json:"cantidad"`
	Movement    string `json:"tipo_movimiento,omitempty"`
	Reason      string `json:"motivo,omitempty"`
}

type TopSellingProduct struct {
	ProductID    int64           `json:"producto_id"`
	Name         string          `json:"nombre"`
	SKU          string          `json:"sku"`
	UnitsSold    int64           `json:"total_vendido"`
	Revenue      decimal.Decimal `json:"ingresos_totales"`
	TimesOrdered int64           `json:"veces_vendido"`
}

type MarginProduct struct {
	ProductID     int64           `json:"producto_id"`
	Name          string          `json:"nombre"`
	SKU           string          `json:"sku"`
	PurchasePrice decimal.Decimal `json:"precio_compra"`
	SalePrice     decimal.Decimal `json:"precio_venta"`
	Margin        decimal.Decimal `json:"margen_ganancia"`
}

type UnsoldProduct struct {
	ProductID int64  `json:"producto_id"`
	Name      string `json:"nombre"`
	SKU       string `json:"sku"`
	CreatedAt string `json:"fecha_creacion"`
	MinStock  int    `json:"stock_minimo"`
	Stock     int    `json:"stock_actual"`
}

type LowStockProduct struct {
	ProductID  int64  `json:"producto_id"`
	Name       string `json:"nombre"`
	SKU        string `json:"sku"`
	TotalStock int    `json:"stock_total"`
	MinStock   int    `json:"stock_minimo"`
	// Level is CRÍTICO, BAJO or OK.
	Level string `json:"estado"`
}

type PromotedProduct struct {
	ProductID         int64           `json:"producto_id"`
	Name              string          `json:"nombre"`
	SKU               string          `json:"sku"`
	SalePrice         decimal.Decimal `json:"precio_venta"`
	PromotionPrice    decimal.Decimal `json:"precio_promocion"`
	DiscountPercent   decimal.Decimal `json:"porcentaje_descuento"`
	PromotionStartsAt string          `json:"fecha_inicio_promocion"`
	PromotionEndsAt   string          `json:"fecha_fin_promocion"`
}

type ProductStatsOverview struct {
	TopSelling       []TopSellingProduct `json:"top_selling"`
	BestMargin       []MarginProduct     `json:"best_margin"`
	NoSales          []UnsoldProduct     `json:"no_sales"`
	LowStock         []LowStockProduct   `json:"low_stock"`
	ActivePromotions []PromotedProduct   `json:"active_promotions"`
}

type Category struct {
	ID          int64   `json:"categoria_id"`
	Name        string  `json:"nombre"`
	ParentID    *int64  `json:"categoria_padre_id"`
	Description *string `json:"descripcion"`
	Active      bool    `json:"activo"`
	ParentName  string  `json:"categoria_padre_nombre,omitempty"`
}

type Brand struct {
	ID          int64   `json:"marca_id"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	Active      bool    `json:"activo"`
}

type Warehouse struct {
	ID       int64  `json:"almacen_id"`
	Name     string `json:"nombre"`
	Location string `json:"ubicacion"`
	Capacity int    `json:"capacidad"`
	Active   bool   `json:"activo"`
}

type Permission struct {
	ID          int64   `json:"permiso_id"`
	Code        string  `json:"codigo"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	Module      string  `json:"modulo"`
	Submodule   *string `json:"submodulo"`
	// Level is Lectura, Escritura, Eliminacion or Administracion.
	Level     string `json:"nivel"`
	Active    bool   `json:"activo"`
	CreatedAt string `json:"fecha_creacion"`
}

type Role struct {
	ID          int64   `json:"rol_id"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	Level       int     `json:"nivel"`
	// Type is Sistema, Negocio or Personalizado.
	Type                string                  `json:"tipo"`
	Active              bool                    `json:"activo"`
	CreatedAt           string                  `json:"fecha_creacion"`
	CreatedBy           *int64                  `json:"creado_por"`
	CreatedByEmail      string                  `json:"creado_por_email,omitempty"`
	UserCount           int                     `json:"total_usuarios"`
	PermissionCount     int                     `json:"total_permisos"`
	Permissions         []Permission            `json:"permisos,omitempty"`
	PermissionsByModule map[string][]Permission `json:"permisos_por_modulo,omitempty"`
	AvailableModules    []string                `json:"modulos_disponibles,omitempty"`
}

type RoleInput struct {
	Name          string  `json:"nombre"`
	Description   string  `json:"descripcion"`
	Level         int     `json:"nivel"`
	Type          string  `json:"tipo"`
	Active        bool    `json:"activo"`
	PermissionIDs []int64 `json:"permisos"`
}

type ProductImagesInput struct {
	ProductID int64          `json:"producto_id"`
	Images    []ProductImage `json:"imagenes"`
}

// User is the customer or employee profile returned by the auth endpoints.
type User struct {
	ID            int64    `json:"usuario_id"`
	Email         string   `json:"email"`
	Type          string   `json:"tipo_usuario"`
	FirstName     string   `json:"nombre"`
	LastName      string   `json:"apellido"`
	Roles         []string `json:"roles"`
	EmailVerified bool     `json:"email_verificado,omitempty"`
	Provider      string   `json:"provider,omitempty"`
	CreatedAt     string   `json:"fecha_creacion,omitempty"`
}

package entities

import "time"

// Order is a customer order as returned by getOrders.
type Order struct {
	OrderID         int64  `json:"order_id"`
	ShopOrderID     int64  `json:"shop_order_id"`
	ExternalOrderID string `json:"external_order_id"`
	OrderSource     string `json:"order_source"`
	OrderSourceID   int64  `json:"order_source_id"`
	OrderSourceInfo string `json:"order_source_info"`
	OrderStatusID   int64  `json:"order_status_id"`

	// DateAdd is the creation time in unix seconds. GetOrders pages on it.
	DateAdd       int64 `json:"date_add"`
	DateConfirmed int64 `json:"date_confirmed"`
	DateInStatus  int64 `json:"date_in_status"`
	Confirmed     Flag  `json:"confirmed"`

	UserLogin     string `json:"user_login"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	UserComments  string `json:"user_comments"`
	AdminComments string `json:"admin_comments"`

	Currency         string  `json:"currency"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentMethodCOD Flag    `json:"payment_method_cod"`
	PaymentDone      float64 `json:"payment_done"`

	DeliveryMethodID      int64   `json:"delivery_method_id"`
	DeliveryMethod        string  `json:"delivery_method"`
	DeliveryPrice         float64 `json:"delivery_price"`
	DeliveryPackageModule string  `json:"delivery_package_module"`
	DeliveryPackageNr     string  `json:"delivery_package_nr"`
	DeliveryFullname      string  `json:"delivery_fullname"`
	DeliveryCompany       string  `json:"delivery_company"`
	DeliveryAddress       string  `json:"delivery_address"`
	DeliveryCity          string  `json:"delivery_city"`
	DeliveryState         string  `json:"delivery_state"`
	DeliveryPostcode      string  `json:"delivery_postcode"`
	DeliveryCountryCode   string  `json:"delivery_country_code"`
	DeliveryPointID       string  `json:"delivery_point_id"`
	DeliveryPointName     string  `json:"delivery_point_name"`
	DeliveryPointAddress  string  `json:"delivery_point_address"`
	DeliveryPointPostcode string  `json:"delivery_point_postcode"`
	DeliveryPointCity     string  `json:"delivery_point_city"`

	InvoiceFullname    string `json:"invoice_fullname"`
	InvoiceCompany     string `json:"invoice_company"`
	InvoiceNIP         string `json:"invoice_nip"`
	InvoiceAddress     string `json:"invoice_address"`
	InvoiceCity        string `json:"invoice_city"`
	InvoiceState       string `json:"invoice_state"`
	InvoicePostcode    string `json:"invoice_postcode"`
	InvoiceCountryCode string `json:"invoice_country_code"`
	WantInvoice        Flag   `json:"want_invoice"`

	ExtraField1 string `json:"extra_field_1"`
	ExtraField2 string `json:"extra_field_2"`
	OrderPage   string `json:"order_page"`
	PickState   int    `json:"pick_state"`
	PackState   int    `json:"pack_state"`

	Products []OrderProduct `json:"products"`
}

// OrderProduct is a single line item of an order.
type OrderProduct struct {
	Storage        string  `json:"storage"`
	StorageID      int64   `json:"storage_id"`
	OrderProductID int64   `json:"order_product_id"`
	ProductID      string  `json:"product_id"`
	VariantID      string  `json:"variant_id"`
	Name           string  `json:"name"`
	SKU            string  `json:"sku"`
	EAN            string  `json:"ean"`
	Location       string  `json:"location"`
	WarehouseID    int64   `json:"warehouse_id"`
	AuctionID      string  `json:"auction_id"`
	Attributes     string  `json:"attributes"`
	PriceBrutto    float64 `json:"price_brutto"`
	TaxRate        float64 `json:"tax_rate"`
	Quantity       int     `json:"quantity"`
	Weight         float64 `json:"weight"`
	BundleID       int64   `json:"bundle_id"`
}

// AddedAt returns DateAdd as a time.Time.
func (o Order) AddedAt() time.Time {
	return time.Unix(o.DateAdd, 0)
}

// TotalValue is the gross value of all line items plus delivery.
func (o Order) TotalValue() float64 {
	total := o.DeliveryPrice
	for _, p := range o.Products {
		total += p.PriceBrutto * float64(p.Quantity)
	}
	return total
}

// MaxDateAdd returns the largest DateAdd among orders, or 0 for none.
func MaxDateAdd(orders []Order) int64 {
	var latest int64
	for i, o := range orders {
		if i == 0 || o.DateAdd > latest {
			latest = o.DateAdd
		}
	}
	return latest
}

package order

import "time"

// Order is one line item of a checkout group. Prices are frozen at
// creation and never recomputed from live pricing rules.
type Order struct {
	ID                 string       `json:"id"`
	GroupID            string       `json:"group_id"`
	UserID             string       `json:"user_id"`
	SellerID           string       `json:"seller_id"`
	Category           Category     `json:"category"`
	ProductName        string       `json:"product_name"`
	ProductImage       *string      `json:"product_image,omitempty"`
	Quantity           int          `json:"quantity"`
	Price              float64      `json:"price"`
	DeliveryCharge     float64      `json:"delivery_charge"`
	DeliveryFeePaid    bool         `json:"is_delivery_fee_paid"`
	ShippingAddress    string       `json:"shipping_address"`
	Mobile             string       `json:"mobile"`
	AltMobiles         []string     `json:"alt_mobiles,omitempty"`
	Status             Status       `json:"status"`
	ReturnType         ReturnType   `json:"return_type,omitempty"`
	ReturnReason       string       `json:"return_reason,omitempty"`
	CancellationReason string       `json:"cancellation_reason,omitempty"`
	RejectionReason    string       `json:"rejection_reason,omitempty"`
	Xerox              *XeroxConfig `json:"xerox_config,omitempty"`
	Tracking           Tracking     `json:"tracking"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Tracking holds one timestamp per lifecycle milestone. Each field is
// set exactly once by its transition; only the replacement re-run rule
// ever clears a field again.
type Tracking struct {
	Ordered              *time.Time `json:"ordered,omitempty"`
	Confirmed            *time.Time `json:"confirmed,omitempty"`
	Packed               *time.Time `json:"packed,omitempty"`
	Shipped              *time.Time `json:"shipped,omitempty"`
	OutForDelivery       *time.Time `json:"out_for_delivery,omitempty"`
	Delivered            *time.Time `json:"delivered,omitempty"`
	ReturnRequested      *time.Time `json:"return_requested,omitempty"`
	ReturnApproved       *time.Time `json:"return_approved,omitempty"`
	OutForPickup         *time.Time `json:"out_for_pickup,omitempty"`
	PickedUp             *time.Time `json:"picked_up,omitempty"`
	ReturnCompleted      *time.Time `json:"return_completed,omitempty"`
	ReplacementConfirmed *time.Time `json:"replacement_confirmed,omitempty"`
	ReplacementCompleted *time.Time `json:"replacement_completed,omitempty"`
	ExpectedDelivery     *time.Time `json:"expected_delivery,omitempty"`
}

// XeroxConfig is the snapshot of print options the frozen price was
// computed from. Present only on xerox-category lines.
type XeroxConfig struct {
	PaperType    string  `json:"paper_type"`
	Color        string  `json:"color"`
	Format       string  `json:"format"`
	Ratio        string  `json:"ratio"`
	Binding      string  `json:"binding,omitempty"`
	Lamination   string  `json:"lamination,omitempty"`
	PageCount    int     `json:"page_count"`
	Copies       int     `json:"copies"`
	Instructions string  `json:"instructions,omitempty"`
	PricePerPage float64 `json:"price_per_page"`
	DocumentURL  string  `json:"document_url,omitempty"`
}

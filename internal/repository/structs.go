package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("not found")

type Order struct {
	ID                     string     `db:"id"`
	GroupID                string     `db:"group_id"`
	UserID                 string     `db:"user_id"`
	SellerID               string     `db:"seller_id"`
	Category               string     `db:"category"`
	ProductName            string     `db:"product_name"`
	ProductImage           *string    `db:"product_image"`
	Quantity               int        `db:"quantity"`
	Price                  float64    `db:"price"`
	DeliveryCharge         float64    `db:"delivery_charge"`
	IsDeliveryFeePaid      bool       `db:"is_delivery_fee_paid"`
	ShippingAddress        string     `db:"shipping_address"`
	Mobile                 string     `db:"mobile"`
	AltMobiles             []string   `db:"alt_mobiles"`
	Status                 string     `db:"status"`
	ReturnType             *string    `db:"return_type"`
	ReturnReason           *string    `db:"return_reason"`
	CancellationReason     *string    `db:"cancellation_reason"`
	RejectionReason        *string    `db:"rejection_reason"`
	XeroxConfig            []byte     `db:"xerox_config"`
	OrderedAt              *time.Time `db:"ordered_at"`
	ConfirmedAt            *time.Time `db:"confirmed_at"`
	PackedAt               *time.Time `db:"packed_at"`
	ShippedAt              *time.Time `db:"shipped_at"`
	OutForDeliveryAt       *time.Time `db:"out_for_delivery_at"`
	DeliveredAt            *time.Time `db:"delivered_at"`
	ReturnRequestedAt      *time.Time `db:"return_requested_at"`
	ReturnApprovedAt       *time.Time `db:"return_approved_at"`
	OutForPickupAt         *time.Time `db:"out_for_pickup_at"`
	PickedUpAt             *time.Time `db:"picked_up_at"`
	ReturnCompletedAt      *time.Time `db:"return_completed_at"`
	ReplacementConfirmedAt *time.Time `db:"replacement_confirmed_at"`
	ReplacementCompletedAt *time.Time `db:"replacement_completed_at"`
	ExpectedDeliveryAt     *time.Time `db:"expected_delivery_at"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
}

type Notification struct {
	ID                  string    `db:"id"`
	UserID              string    `db:"user_id"`
	OrderID             string    `db:"order_id"`
	Title               string    `db:"title"`
	Message             string    `db:"message"`
	SellerMobileNumbers []string  `db:"seller_mobile_numbers"`
	IsRead              bool      `db:"is_read"`
	CreatedAt           time.Time `db:"created_at"`
}

type DeliveryChargeRule struct {
	ID         int64    `db:"id"`
	Context    string   `db:"context"`
	FromAmount float64  `db:"from_amount"`
	ToAmount   *float64 `db:"to_amount"`
	Charge     float64  `db:"charge"`
}

type PaperType struct {
	Name            string  `db:"name"`
	PriceBWFront    float64 `db:"price_bw_front"`
	PriceBWBoth     float64 `db:"price_bw_both"`
	PriceColorFront float64 `db:"price_color_front"`
	PriceColorBoth  float64 `db:"price_color_both"`
}

type FinishingOption struct {
	Name  string  `db:"name"`
	Price float64 `db:"price"`
}

type Shop struct {
	SellerID      string   `db:"seller_id"`
	Name          string   `db:"name"`
	MobileNumbers []string `db:"mobile_numbers"`
}

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusFailed     TaskStatus = "FAILED"
)

type OutboxTask struct {
	ID          uuid.UUID  `db:"id"`
	Topic       string     `db:"topic"`
	Payload     []byte     `db:"payload"`
	Status      TaskStatus `db:"status"`
	Attempts    int        `db:"attempts"`
	LastError   *string    `db:"last_error"`
	CreatedAt   time.Time  `db:"created_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

package order

// Status is the single source of truth for where an order line sits in
// its lifecycle. The set is closed: transitions only ever move between
// the constants below.
type Status string

const (
	StatusPendingConfirmation            Status = "Pending Confirmation"
	StatusProcessing                     Status = "Processing"
	StatusPacked                         Status = "Packed"
	StatusShipped                        Status = "Shipped"
	StatusOutForDelivery                 Status = "Out for Delivery"
	StatusPendingDeliveryConfirmation    Status = "Pending Delivery Confirmation"
	StatusDelivered                      Status = "Delivered"
	StatusCancelled                      Status = "Cancelled"
	StatusRejected                       Status = "Rejected"
	StatusReturnRequested                Status = "Return Requested"
	StatusReturnApproved                 Status = "Return Approved"
	StatusReturnRejected                 Status = "Return Rejected"
	StatusOutForPickup                   Status = "Out for Pickup"
	StatusPickedUp                       Status = "Picked Up"
	StatusPendingReturnConfirmation      Status = "Pending Return Confirmation"
	StatusReturnCompleted                Status = "Return Completed"
	StatusReplacementConfirmed           Status = "Replacement Confirmed"
	StatusPendingReplacementConfirmation Status = "Pending Replacement Confirmation"
	StatusReplacementCompleted           Status = "Replacement Completed"
)

var allStatuses = map[Status]struct{}{
	StatusPendingConfirmation:            {},
	StatusProcessing:                     {},
	StatusPacked:                         {},
	StatusShipped:                        {},
	StatusOutForDelivery:                 {},
	StatusPendingDeliveryConfirmation:    {},
	StatusDelivered:                      {},
	StatusCancelled:                      {},
	StatusRejected:                       {},
	StatusReturnRequested:                {},
	StatusReturnApproved:                 {},
	StatusReturnRejected:                 {},
	StatusOutForPickup:                   {},
	StatusPickedUp:                       {},
	StatusPendingReturnConfirmation:      {},
	StatusReturnCompleted:                {},
	StatusReplacementConfirmed:           {},
	StatusPendingReplacementConfirmation: {},
	StatusReplacementCompleted:           {},
}

func (s Status) Valid() bool {
	_, ok := allStatuses[s]
	return ok
}

// Active reports whether the order still needs attention from anyone.
// Used by the order cache to decide what to keep resident.
func (s Status) Active() bool {
	switch s {
	case StatusCancelled, StatusRejected, StatusDelivered,
		StatusReturnRejected, StatusReturnCompleted, StatusReplacementCompleted:
		return false
	}
	return true
}

// AwaitsCustomer reports whether the status is one of the checkpoints
// that only an explicit customer confirmation may advance.
func (s Status) AwaitsCustomer() bool {
	switch s {
	case StatusPendingDeliveryConfirmation, StatusPendingReturnConfirmation, StatusPendingReplacementConfirmation:
		return true
	}
	return false
}

type Category string

const (
	CategoryStationary  Category = "stationary"
	CategoryBooks       Category = "books"
	CategoryElectronics Category = "electronics"
	CategoryXerox       Category = "xerox"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryStationary, CategoryBooks, CategoryElectronics, CategoryXerox:
		return true
	}
	return false
}

// ReturnType selects which downstream branch a return request follows.
type ReturnType string

const (
	ReturnRefund      ReturnType = "refund"
	ReturnReplacement ReturnType = "replacement"
)

func (r ReturnType) Valid() bool {
	return r == ReturnRefund || r == ReturnReplacement
}

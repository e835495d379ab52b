package order

import (
	"fmt"
	"time"
)

// ReturnWindow is how long after delivery a customer may still open a
// return or replacement request. The boundary is inclusive: a request
// at exactly 72h is accepted.
const ReturnWindow = 72 * time.Hour

// Action names a single lifecycle move. The set is closed; the HTTP
// layer parses the wire string with ParseAction.
type Action string

const (
	ActionConfirm                      Action = "confirm"
	ActionCancel                       Action = "cancel"
	ActionReject                       Action = "reject"
	ActionPack                         Action = "pack"
	ActionShip                         Action = "ship"
	ActionStartDelivery                Action = "start-delivery"
	ActionAwaitDeliveryConfirmation    Action = "await-delivery-confirmation"
	ActionConfirmDelivery              Action = "confirm-delivery"
	ActionRequestReturn                Action = "request-return"
	ActionApproveReturn                Action = "approve-return"
	ActionRejectReturn                 Action = "reject-return"
	ActionStartPickup                  Action = "start-pickup"
	ActionCompletePickup               Action = "complete-pickup"
	ActionAwaitReturnConfirmation      Action = "await-return-confirmation"
	ActionConfirmReturn                Action = "confirm-return"
	ActionApproveReplacement           Action = "approve-replacement"
	ActionRestartFulfillment           Action = "restart-fulfillment"
	ActionAwaitReplacementConfirmation Action = "await-replacement-confirmation"
	ActionConfirmReplacement           Action = "confirm-replacement"
)

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := transitions[a]; !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrValidationFailed, s)
	}
	return a, nil
}

// Actor is who is allowed to drive an action. Admins act with seller
// privileges; identity itself is the caller's concern.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorSeller   Actor = "seller"
)

// Request carries everything a transition may need. Now is injected so
// the window check stays deterministic under test.
type Request struct {
	Action     Action
	Reason     string
	ReturnType ReturnType
	Now        time.Time
}

// Notice is a user-facing notification draft produced by a transition.
// Persistence (and the seller contact numbers) is the service's job.
type Notice struct {
	Title          string
	Message        string
	ActionRequired bool
}

// Result describes an applied transition.
type Result struct {
	Previous Status
	Status   Status
	Notice   *Notice
}

type notifyKind int

const (
	notifyNone notifyKind = iota
	notifyStatus
	notifyActionRequired
)

type transitionSpec struct {
	from           []Status
	to             Status
	actor          Actor
	requiresReason bool
	notify         notifyKind
	// guard enforces business rules beyond reachability and runs before
	// the from-set check so it can classify races as precondition
	// failures rather than invalid transitions.
	guard func(o *Order, req Request) error
	apply func(o *Order, req Request)
}

var transitions = map[Action]transitionSpec{
	ActionConfirm: {
		from:   []Status{StatusPendingConfirmation},
		to:     StatusProcessing,
		actor:  ActorSeller,
		notify: notifyStatus,
		guard: func(o *Order, _ Request) error {
			if o.Status == StatusCancelled {
				return fmt.Errorf("%w: order was cancelled by the customer", ErrPreconditionFailed)
			}
			return nil
		},
		apply: func(o *Order, req Request) { o.Tracking.Confirmed = &req.Now },
	},
	ActionCancel: {
		from:           []Status{StatusPendingConfirmation},
		to:             StatusCancelled,
		actor:          ActorCustomer,
		requiresReason: true,
		guard: func(o *Order, _ Request) error {
			if o.Status != StatusPendingConfirmation {
				return fmt.Errorf("%w: order can no longer be cancelled, the seller has already acted on it", ErrPreconditionFailed)
			}
			return nil
		},
		apply: func(o *Order, req Request) { o.CancellationReason = req.Reason },
	},
	ActionReject: {
		from:           []Status{StatusPendingConfirmation},
		to:             StatusRejected,
		actor:          ActorSeller,
		requiresReason: true,
		notify:         notifyStatus,
		apply:          func(o *Order, req Request) { o.RejectionReason = req.Reason },
	},
	ActionPack: {
		from:   []Status{StatusProcessing},
		to:     StatusPacked,
		actor:  ActorSeller,
		notify: notifyStatus,
		apply:  func(o *Order, req Request) { o.Tracking.Packed = &req.Now },
	},
	ActionShip: {
		from:   []Status{StatusPacked},
		to:     StatusShipped,
		actor:  ActorSeller,
		notify: notifyStatus,
		apply:  func(o *Order, req Request) { o.Tracking.Shipped = &req.Now },
	},
	ActionStartDelivery: {
		from:  []Status{StatusShipped},
		to:    StatusOutForDelivery,
		actor: ActorSeller,
		apply: func(o *Order, req Request) { o.Tracking.OutForDelivery = &req.Now },
	},
	ActionAwaitDeliveryConfirmation: {
		from:   []Status{StatusOutForDelivery},
		to:     StatusPendingDeliveryConfirmation,
		actor:  ActorSeller,
		notify: notifyActionRequired,
		guard: func(o *Order, _ Request) error {
			if o.Tracking.ReplacementConfirmed != nil {
				return fmt.Errorf("%w: replacement runs complete via replacement confirmation", ErrPreconditionFailed)
			}
			return nil
		},
		apply: func(o *Order, req Request) { o.Tracking.ExpectedDelivery = &req.Now },
	},
	ActionConfirmDelivery: {
		from:  []Status{StatusPendingDeliveryConfirmation},
		to:    StatusDelivered,
		actor: ActorCustomer,
		apply: func(o *Order, req Request) { o.Tracking.Delivered = &req.Now },
	},
	ActionRequestReturn: {
		from:           []Status{StatusDelivered},
		to:             StatusReturnRequested,
		actor:          ActorCustomer,
		requiresReason: true,
		guard:          guardReturnRequest,
		apply: func(o *Order, req Request) {
			o.ReturnType = req.ReturnType
			o.ReturnReason = req.Reason
			o.Tracking.ReturnRequested = &req.Now
		},
	},
	ActionApproveReturn: {
		from:   []Status{StatusReturnRequested},
		to:     StatusReturnApproved,
		actor:  ActorSeller,
		notify: notifyStatus,
		guard: func(o *Order, _ Request) error {
			if o.Status == StatusReturnRequested && o.ReturnType != ReturnRefund {
				return fmt.Errorf("%w: request is for a replacement, not a refund", ErrPreconditionFailed)
			}
			return nil
		},
		apply: func(o *Order, req Request) { o.Tracking.ReturnApproved = &req.Now },
	},
	ActionRejectReturn: {
		from:           []Status{StatusReturnRequested},
		to:             StatusReturnRejected,
		actor:          ActorSeller,
		requiresReason: true,
		notify:         notifyStatus,
		apply:          func(o *Order, req Request) { o.RejectionReason = req.Reason },
	},
	ActionStartPickup: {
		from:  []Status{StatusReturnApproved},
		to:    StatusOutForPickup,
		actor: ActorSeller,
		apply: func(o *Order, req Request) { o.Tracking.OutForPickup = &req.Now },
	},
	ActionCompletePickup: {
		from:  []Status{StatusOutForPickup},
		to:    StatusPickedUp,
		actor: ActorSeller,
		apply: func(o *Order, req Request) { o.Tracking.PickedUp = &req.Now },
	},
	ActionAwaitReturnConfirmation: {
		from:   []Status{StatusPickedUp},
		to:     StatusPendingReturnConfirmation,
		actor:  ActorSeller,
		notify: notifyActionRequired,
	},
	ActionConfirmReturn: {
		from:  []Status{StatusPendingReturnConfirmation},
		to:    StatusReturnCompleted,
		actor: ActorCustomer,
		apply: func(o *Order, req Request) { o.Tracking.ReturnCompleted = &req.Now },
	},
	ActionApproveReplacement: {
		from:   []Status{StatusReturnRequested},
		to:     StatusReplacementConfirmed,
		actor:  ActorSeller,
		notify: notifyStatus,
		guard: func(o *Order, _ Request) error {
			if o.Status == StatusReturnRequested && o.ReturnType != ReturnReplacement {
				return fmt.Errorf("%w: request is for a refund, not a replacement", ErrPreconditionFailed)
			}
			return nil
		},
		apply: func(o *Order, req Request) { o.Tracking.ReplacementConfirmed = &req.Now },
	},
	ActionRestartFulfillment: {
		from:  []Status{StatusReplacementConfirmed},
		to:    StatusProcessing,
		actor: ActorSeller,
		// Replacement re-runs the fulfillment cycle: the milestones of
		// the first run are cleared so each can be stamped again.
		apply: func(o *Order, _ Request) {
			o.Tracking.Packed = nil
			o.Tracking.Shipped = nil
			o.Tracking.OutForDelivery = nil
			o.Tracking.Delivered = nil
			o.Tracking.ReplacementCompleted = nil
			o.Tracking.ExpectedDelivery = nil
		},
	},
	ActionAwaitReplacementConfirmation: {
		from:   []Status{StatusOutForDelivery},
		to:     StatusPendingReplacementConfirmation,
		actor:  ActorSeller,
		notify: notifyActionRequired,
		guard: func(o *Order, _ Request) error {
			if o.Tracking.ReplacementConfirmed == nil {
				return fmt.Errorf("%w: order is not on a replacement run", ErrPreconditionFailed)
			}
			return nil
		},
	},
	ActionConfirmReplacement: {
		from:  []Status{StatusPendingReplacementConfirmation},
		to:    StatusReplacementCompleted,
		actor: ActorCustomer,
		apply: func(o *Order, req Request) { o.Tracking.ReplacementCompleted = &req.Now },
	},
}

func guardReturnRequest(o *Order, req Request) error {
	if o.Category == CategoryXerox {
		return fmt.Errorf("%w: xerox orders cannot be returned or replaced", ErrPreconditionFailed)
	}
	if !req.ReturnType.Valid() {
		return fmt.Errorf("%w: return type must be refund or replacement", ErrValidationFailed)
	}
	if o.Status == StatusDelivered {
		if o.Tracking.Delivered == nil {
			return fmt.Errorf("%w: order has no delivery timestamp", ErrPreconditionFailed)
		}
		if req.Now.Sub(*o.Tracking.Delivered) > ReturnWindow {
			return fmt.Errorf("%w: return window of 3 days after delivery has expired", ErrPreconditionFailed)
		}
	}
	return nil
}

// ActorFor reports which role may drive the action.
func ActorFor(a Action) (Actor, bool) {
	spec, ok := transitions[a]
	if !ok {
		return "", false
	}
	return spec.actor, true
}

// Transition applies the action to the order in place. On any error the
// order is left untouched. The returned result carries the notification
// draft the transition mandates, if any; persisting both atomically is
// the caller's job.
func (o *Order) Transition(req Request) (*Result, error) {
	spec, ok := transitions[req.Action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrValidationFailed, req.Action)
	}
	if spec.requiresReason && req.Reason == "" {
		return nil, fmt.Errorf("%w: a reason is required to %s an order", ErrValidationFailed, req.Action)
	}
	if spec.guard != nil {
		if err := spec.guard(o, req); err != nil {
			return nil, err
		}
	}
	if !statusIn(o.Status, spec.from) {
		return nil, fmt.Errorf("%w: cannot %s an order in status %q", ErrInvalidTransition, req.Action, o.Status)
	}

	res := &Result{Previous: o.Status, Status: spec.to}

	o.Status = spec.to
	o.UpdatedAt = req.Now
	if spec.apply != nil {
		spec.apply(o, req)
	}

	switch spec.notify {
	case notifyStatus:
		res.Notice = statusNotice(o, req)
	case notifyActionRequired:
		res.Notice = actionRequiredNotice(o)
	}

	return res, nil
}

func statusIn(s Status, set []Status) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

func statusNotice(o *Order, req Request) *Notice {
	n := &Notice{Title: fmt.Sprintf("Order %s", o.Status)}
	switch o.Status {
	case StatusProcessing:
		n.Message = fmt.Sprintf("Your order for %s has been confirmed and is being processed.", o.ProductName)
	case StatusPacked:
		n.Message = fmt.Sprintf("Your order for %s has been packed.", o.ProductName)
	case StatusShipped:
		n.Message = fmt.Sprintf("Your order for %s has been shipped.", o.ProductName)
	case StatusRejected:
		n.Message = fmt.Sprintf("Your order for %s was rejected by the seller. Reason: %s", o.ProductName, req.Reason)
	case StatusReturnApproved:
		n.Message = fmt.Sprintf("Your return request for %s has been approved.", o.ProductName)
	case StatusReturnRejected:
		n.Message = fmt.Sprintf("Your return request for %s was rejected. Reason: %s", o.ProductName, req.Reason)
	case StatusReplacementConfirmed:
		n.Message = fmt.Sprintf("Your replacement request for %s has been confirmed by the seller.", o.ProductName)
	default:
		n.Message = fmt.Sprintf("Your order for %s is now %s.", o.ProductName, o.Status)
	}
	return n
}

func actionRequiredNotice(o *Order) *Notice {
	n := &Notice{ActionRequired: true}
	switch o.Status {
	case StatusPendingDeliveryConfirmation:
		n.Title = "Confirm your delivery"
		n.Message = fmt.Sprintf("Your order for %s is about to be delivered. Please confirm once you receive it.", o.ProductName)
	case StatusPendingReturnConfirmation:
		n.Title = "Confirm your return"
		n.Message = fmt.Sprintf("Your return of %s has been picked up. Please confirm completion.", o.ProductName)
	case StatusPendingReplacementConfirmation:
		n.Title = "Confirm your replacement"
		n.Message = fmt.Sprintf("Your replacement for %s is about to be delivered. Please confirm once you receive it.", o.ProductName)
	}
	return n
}

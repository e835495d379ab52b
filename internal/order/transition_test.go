package order_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhub-store/backend/internal/order"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newOrder(status order.Status) *order.Order {
	return &order.Order{
		ID:          "order-1",
		GroupID:     "group-1",
		UserID:      "user-1",
		SellerID:    "seller-1",
		Category:    order.CategoryBooks,
		ProductName: "Algebra Textbook",
		Quantity:    1,
		Price:       250,
		Status:      status,
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
	}
}

func apply(t *testing.T, o *order.Order, action order.Action, now time.Time) *order.Result {
	t.Helper()
	res, err := o.Transition(order.Request{Action: action, Now: now})
	require.NoError(t, err)
	return res
}

func TestTransition_HappyPath(t *testing.T) {
	o := newOrder(order.StatusPendingConfirmation)
	now := baseTime

	steps := []struct {
		action order.Action
		want   order.Status
	}{
		{order.ActionConfirm, order.StatusProcessing},
		{order.ActionPack, order.StatusPacked},
		{order.ActionShip, order.StatusShipped},
		{order.ActionStartDelivery, order.StatusOutForDelivery},
		{order.ActionAwaitDeliveryConfirmation, order.StatusPendingDeliveryConfirmation},
		{order.ActionConfirmDelivery, order.StatusDelivered},
	}

	for _, step := range steps {
		now = now.Add(time.Hour)
		res := apply(t, o, step.action, now)
		assert.Equal(t, step.want, o.Status)
		assert.Equal(t, step.want, res.Status)
		assert.Equal(t, now, o.UpdatedAt)
	}

	require.NotNil(t, o.Tracking.Confirmed)
	require.NotNil(t, o.Tracking.Packed)
	require.NotNil(t, o.Tracking.Shipped)
	require.NotNil(t, o.Tracking.OutForDelivery)
	require.NotNil(t, o.Tracking.ExpectedDelivery)
	require.NotNil(t, o.Tracking.Delivered)
}

func TestTransition_InvalidAction(t *testing.T) {
	o := newOrder(order.StatusPendingConfirmation)

	_, err := o.Transition(order.Request{Action: "teleport", Now: baseTime})
	assert.ErrorIs(t, err, order.ErrValidationFailed)
	assert.Equal(t, order.StatusPendingConfirmation, o.Status)
}

func TestTransition_InvalidFromStatus(t *testing.T) {
	o := newOrder(order.StatusPendingConfirmation)

	_, err := o.Transition(order.Request{Action: order.ActionShip, Now: baseTime})
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Equal(t, order.StatusPendingConfirmation, o.Status)
	assert.Nil(t, o.Tracking.Shipped)
}

func TestTransition_ReasonRequired(t *testing.T) {
	tests := []struct {
		name   string
		status order.Status
		action order.Action
	}{
		{"cancel", order.StatusPendingConfirmation, order.ActionCancel},
		{"reject", order.StatusPendingConfirmation, order.ActionReject},
		{"reject return", order.StatusReturnRequested, order.ActionRejectReturn},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := newOrder(tc.status)

			_, err := o.Transition(order.Request{Action: tc.action, Now: baseTime})
			assert.ErrorIs(t, err, order.ErrValidationFailed)
			assert.Equal(t, tc.status, o.Status)
		})
	}
}

func TestTransition_CancelConfirmRace(t *testing.T) {
	t.Run("confirm after cancel is a precondition failure", func(t *testing.T) {
		o := newOrder(order.StatusPendingConfirmation)

		_, err := o.Transition(order.Request{Action: order.ActionCancel, Reason: "changed my mind", Now: baseTime})
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, o.Status)
		assert.Equal(t, "changed my mind", o.CancellationReason)

		_, err = o.Transition(order.Request{Action: order.ActionConfirm, Now: baseTime})
		assert.ErrorIs(t, err, order.ErrPreconditionFailed)
		assert.Equal(t, order.StatusCancelled, o.Status)
	})

	t.Run("cancel after confirm is a precondition failure", func(t *testing.T) {
		o := newOrder(order.StatusPendingConfirmation)

		apply(t, o, order.ActionConfirm, baseTime)

		_, err := o.Transition(order.Request{Action: order.ActionCancel, Reason: "too late", Now: baseTime})
		assert.ErrorIs(t, err, order.ErrPreconditionFailed)
		assert.Equal(t, order.StatusProcessing, o.Status)
		assert.Empty(t, o.CancellationReason)
	})
}

func TestTransition_ReturnRequest(t *testing.T) {
	deliveredAt := baseTime

	delivered := func() *order.Order {
		o := newOrder(order.StatusDelivered)
		o.Tracking.Delivered = &deliveredAt
		return o
	}

	t.Run("within window", func(t *testing.T) {
		o := delivered()

		res, err := o.Transition(order.Request{
			Action:     order.ActionRequestReturn,
			Reason:     "wrong edition",
			ReturnType: order.ReturnRefund,
			Now:        deliveredAt.Add(24 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, order.StatusReturnRequested, o.Status)
		assert.Equal(t, order.StatusDelivered, res.Previous)
		assert.Equal(t, order.ReturnRefund, o.ReturnType)
		assert.Equal(t, "wrong edition", o.ReturnReason)
		require.NotNil(t, o.Tracking.ReturnRequested)
	})

	t.Run("exactly at window boundary is accepted", func(t *testing.T) {
		o := delivered()

		_, err := o.Transition(order.Request{
			Action:     order.ActionRequestReturn,
			Reason:     "wrong edition",
			ReturnType: order.ReturnRefund,
			Now:        deliveredAt.Add(order.ReturnWindow),
		})
		assert.NoError(t, err)
	})

	t.Run("past window is rejected", func(t *testing.T) {
		o := delivered()

		_, err := o.Transition(order.Request{
			Action:     order.ActionRequestReturn,
			Reason:     "wrong edition",
			ReturnType: order.ReturnRefund,
			Now:        deliveredAt.Add(order.ReturnWindow + time.Second),
		})
		assert.ErrorIs(t, err, order.ErrPreconditionFailed)
		assert.Equal(t, order.StatusDelivered, o.Status)
	})

	t.Run("xerox orders cannot be returned", func(t *testing.T) {
		o := delivered()
		o.Category = order.CategoryXerox

		_, err := o.Transition(order.Request{
			Action:     order.ActionRequestReturn,
			Reason:     "smudged print",
			ReturnType: order.ReturnRefund,
			Now:        deliveredAt.Add(time.Hour),
		})
		assert.ErrorIs(t, err, order.ErrPreconditionFailed)
		assert.Equal(t, order.StatusDelivered, o.Status)
	})

	t.Run("missing return type", func(t *testing.T) {
		o := delivered()

		_, err := o.Transition(order.Request{
			Action: order.ActionRequestReturn,
			Reason: "wrong edition",
			Now:    deliveredAt.Add(time.Hour),
		})
		assert.ErrorIs(t, err, order.ErrValidationFailed)
	})
}

func TestTransition_RefundBranch(t *testing.T) {
	o := newOrder(order.StatusReturnRequested)
	o.ReturnType = order.ReturnRefund
	now := baseTime

	steps := []struct {
		action order.Action
		want   order.Status
	}{
		{order.ActionApproveReturn, order.StatusReturnApproved},
		{order.ActionStartPickup, order.StatusOutForPickup},
		{order.ActionCompletePickup, order.StatusPickedUp},
		{order.ActionAwaitReturnConfirmation, order.StatusPendingReturnConfirmation},
		{order.ActionConfirmReturn, order.StatusReturnCompleted},
	}

	for _, step := range steps {
		now = now.Add(time.Hour)
		apply(t, o, step.action, now)
		assert.Equal(t, step.want, o.Status)
	}

	require.NotNil(t, o.Tracking.ReturnApproved)
	require.NotNil(t, o.Tracking.OutForPickup)
	require.NotNil(t, o.Tracking.PickedUp)
	require.NotNil(t, o.Tracking.ReturnCompleted)
	assert.False(t, o.Status.Active())
}

func TestTransition_BranchGuards(t *testing.T) {
	t.Run("refund approval on a replacement request", func(t *testing.T) {
		o := newOrder(order.StatusReturnRequested)
		o.ReturnType = order.ReturnReplacement

		_, err := o.Transition(order.Request{Action: order.ActionApproveReturn, Now: baseTime})
		assert.ErrorIs(t, err, order.ErrPreconditionFailed)
	})

	t.Run("replacement approval on a refund request", func(t *testing.T) {
		o := newOrder(order.StatusReturnRequested)
		o.ReturnType = order.ReturnRefund

		_, err := o.Transition(order.Request{Action: order.ActionApproveReplacement, Now: baseTime})
		assert.ErrorIs(t, err, order.ErrPreconditionFailed)
	})
}

func TestTransition_ReplacementRun(t *testing.T) {
	o := newOrder(order.StatusReturnRequested)
	o.ReturnType = order.ReturnReplacement

	firstRun := baseTime
	o.Tracking.Packed = &firstRun
	o.Tracking.Shipped = &firstRun
	o.Tracking.OutForDelivery = &firstRun
	o.Tracking.ExpectedDelivery = &firstRun
	o.Tracking.Delivered = &firstRun

	now := baseTime.Add(time.Hour)
	apply(t, o, order.ActionApproveReplacement, now)
	assert.Equal(t, order.StatusReplacementConfirmed, o.Status)
	require.NotNil(t, o.Tracking.ReplacementConfirmed)

	now = now.Add(time.Hour)
	apply(t, o, order.ActionRestartFulfillment, now)
	assert.Equal(t, order.StatusProcessing, o.Status)

	// Restart clears the milestones of the first run.
	assert.Nil(t, o.Tracking.Packed)
	assert.Nil(t, o.Tracking.Shipped)
	assert.Nil(t, o.Tracking.OutForDelivery)
	assert.Nil(t, o.Tracking.Delivered)
	assert.Nil(t, o.Tracking.ReplacementCompleted)
	assert.Nil(t, o.Tracking.ExpectedDelivery)
	assert.NotNil(t, o.Tracking.ReplacementConfirmed)

	for _, action := range []order.Action{order.ActionPack, order.ActionShip, order.ActionStartDelivery} {
		now = now.Add(time.Hour)
		apply(t, o, action, now)
	}
	assert.Equal(t, order.StatusOutForDelivery, o.Status)

	// A replacement run must not complete through the delivery checkpoint.
	_, err := o.Transition(order.Request{Action: order.ActionAwaitDeliveryConfirmation, Now: now})
	assert.ErrorIs(t, err, order.ErrPreconditionFailed)

	now = now.Add(time.Hour)
	apply(t, o, order.ActionAwaitReplacementConfirmation, now)
	assert.Equal(t, order.StatusPendingReplacementConfirmation, o.Status)

	now = now.Add(time.Hour)
	apply(t, o, order.ActionConfirmReplacement, now)
	assert.Equal(t, order.StatusReplacementCompleted, o.Status)
	require.NotNil(t, o.Tracking.ReplacementCompleted)
	assert.False(t, o.Status.Active())
}

func TestTransition_ReplacementCheckpointRequiresReplacementRun(t *testing.T) {
	o := newOrder(order.StatusOutForDelivery)

	_, err := o.Transition(order.Request{Action: order.ActionAwaitReplacementConfirmation, Now: baseTime})
	assert.ErrorIs(t, err, order.ErrPreconditionFailed)
	assert.Equal(t, order.StatusOutForDelivery, o.Status)
}

func TestTransition_Notices(t *testing.T) {
	t.Run("status notice on confirm", func(t *testing.T) {
		o := newOrder(order.StatusPendingConfirmation)

		res := apply(t, o, order.ActionConfirm, baseTime)
		require.NotNil(t, res.Notice)
		assert.Equal(t, "Order Processing", res.Notice.Title)
		assert.Contains(t, res.Notice.Message, "Algebra Textbook")
		assert.False(t, res.Notice.ActionRequired)
	})

	t.Run("rejection notice carries the reason", func(t *testing.T) {
		o := newOrder(order.StatusPendingConfirmation)

		res, err := o.Transition(order.Request{Action: order.ActionReject, Reason: "out of stock", Now: baseTime})
		require.NoError(t, err)
		require.NotNil(t, res.Notice)
		assert.Contains(t, res.Notice.Message, "out of stock")
	})

	t.Run("action required notice at the delivery checkpoint", func(t *testing.T) {
		o := newOrder(order.StatusOutForDelivery)

		res := apply(t, o, order.ActionAwaitDeliveryConfirmation, baseTime)
		require.NotNil(t, res.Notice)
		assert.True(t, res.Notice.ActionRequired)
		assert.Equal(t, "Confirm your delivery", res.Notice.Title)
	})

	t.Run("no notice on silent transitions", func(t *testing.T) {
		o := newOrder(order.StatusShipped)

		res := apply(t, o, order.ActionStartDelivery, baseTime)
		assert.Nil(t, res.Notice)
	})
}

func TestParseAction(t *testing.T) {
	a, err := order.ParseAction("request-return")
	require.NoError(t, err)
	assert.Equal(t, order.ActionRequestReturn, a)

	_, err = order.ParseAction("explode")
	assert.ErrorIs(t, err, order.ErrValidationFailed)
}

func TestActorFor(t *testing.T) {
	actor, ok := order.ActorFor(order.ActionConfirm)
	require.True(t, ok)
	assert.Equal(t, order.ActorSeller, actor)

	actor, ok = order.ActorFor(order.ActionCancel)
	require.True(t, ok)
	assert.Equal(t, order.ActorCustomer, actor)

	_, ok = order.ActorFor("explode")
	assert.False(t, ok)
}

func TestStatusActive(t *testing.T) {
	assert.True(t, order.StatusProcessing.Active())
	assert.True(t, order.StatusReturnRequested.Active())
	assert.False(t, order.StatusDelivered.Active())
	assert.False(t, order.StatusCancelled.Active())
	assert.False(t, order.StatusReturnCompleted.Active())
	assert.False(t, order.StatusReplacementCompleted.Active())
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/pricing"
	"github.com/printhub-store/backend/internal/repository"
	"github.com/printhub-store/backend/internal/repository/memory"
	"github.com/printhub-store/backend/internal/service"
)

var startTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func ptr(f float64) *float64 { return &f }

// fixture wires the service against the in-memory store with a movable
// clock, seeded with the standard pricing configuration.
type fixture struct {
	store *memory.Store
	svc   *service.OrderService
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{store: store, now: startTime}

	f.svc = service.New(
		store,
		store,
		store.Notifications(),
		store,
		store,
		store.Outbox(),
		zap.NewNop(),
		service.WithClock(func() time.Time { return f.now }),
	)

	store.SetDeliveryRules([]*repository.DeliveryChargeRule{
		{Context: "items", FromAmount: 0, ToAmount: ptr(499), Charge: 40},
		{Context: "items", FromAmount: 500, Charge: 0},
		{Context: "xerox", FromAmount: 0, ToAmount: ptr(99), Charge: 20},
		{Context: "xerox", FromAmount: 100, Charge: 0},
	})
	store.AddPaperType(&repository.PaperType{
		Name:            "a4",
		PriceBWFront:    2,
		PriceBWBoth:     1.5,
		PriceColorFront: 5,
		PriceColorBoth:  4,
	})
	store.AddBindingOption(&repository.FinishingOption{Name: "spiral", Price: 30})
	store.AddLaminationOption(&repository.FinishingOption{Name: "glossy", Price: 20})
	store.AddShop(&repository.Shop{
		SellerID:      "seller-1",
		Name:          "Campus Print Hub",
		MobileNumbers: []string{"9000000001", "9000000002"},
	})

	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func itemsCheckout() service.CheckoutInput {
	return service.CheckoutInput{
		UserID:          "user-1",
		ShippingAddress: "12 College Road",
		Mobile:          "9111111111",
		Items: []service.CheckoutItem{
			{SellerID: "seller-1", Category: order.CategoryBooks, ProductName: "Algebra Textbook", Quantity: 1, UnitPrice: 100},
			{SellerID: "seller-2", Category: order.CategoryStationary, ProductName: "Notebook Pack", Quantity: 1, UnitPrice: 250},
		},
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes prices and apportions the delivery charge", func(t *testing.T) {
		f := newFixture(t)

		group, err := f.svc.Checkout(ctx, itemsCheckout())
		require.NoError(t, err)

		assert.Equal(t, 350.0, group.Subtotal)
		assert.Equal(t, 40.0, group.DeliveryTotal)
		assert.Equal(t, 390.0, group.GrandTotal)
		require.Len(t, group.Sellers, 2)

		// Proportional split of 40 over 100 and 250, remainder on the last line.
		var charges []float64
		for _, seller := range group.Sellers {
			for _, o := range seller.Orders {
				charges = append(charges, o.DeliveryCharge)
				assert.Equal(t, order.StatusPendingConfirmation, o.Status)
				assert.Equal(t, group.GroupID, o.GroupID)
				require.NotNil(t, o.Tracking.Ordered)
			}
		}
		assert.ElementsMatch(t, []float64{11.43, 28.57}, charges)
	})

	t.Run("free tier above the threshold", func(t *testing.T) {
		f := newFixture(t)

		in := itemsCheckout()
		in.Items[1].UnitPrice = 450

		group, err := f.svc.Checkout(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, 550.0, group.Subtotal)
		assert.Equal(t, 0.0, group.DeliveryTotal)
	})

	t.Run("xerox line is priced from the catalog", func(t *testing.T) {
		f := newFixture(t)

		group, err := f.svc.Checkout(ctx, service.CheckoutInput{
			UserID:          "user-1",
			ShippingAddress: "12 College Road",
			Mobile:          "9111111111",
			Items: []service.CheckoutItem{{
				SellerID:    "seller-1",
				Category:    order.CategoryXerox,
				ProductName: "Lecture Notes",
				Quantity:    2,
				Xerox: &service.XeroxInput{
					PaperType: "a4",
					Color:     pricing.ColorBW,
					Format:    pricing.FormatFrontAndBack,
					Ratio:     pricing.RatioNormal,
					PageCount: 5,
				},
			}},
		})
		require.NoError(t, err)

		require.Len(t, group.Sellers, 1)
		line := group.Sellers[0].Orders[0]
		assert.Equal(t, 4.5, line.Price)
		require.NotNil(t, line.Xerox)
		assert.Equal(t, "a4", line.Xerox.PaperType)
		assert.Equal(t, 1.5, line.Xerox.PricePerPage)
		assert.Equal(t, 2, line.Xerox.Copies)

		// Xerox subtotal of 9 sits in the paid xerox tier.
		assert.Equal(t, 9.0, group.Subtotal)
		assert.Equal(t, 20.0, group.DeliveryTotal)
	})

	t.Run("mixed cart evaluates each context on its own subtotal", func(t *testing.T) {
		f := newFixture(t)

		in := itemsCheckout()
		in.Items = append(in.Items, service.CheckoutItem{
			SellerID:    "seller-1",
			Category:    order.CategoryXerox,
			ProductName: "Lecture Notes",
			Quantity:    2,
			Xerox: &service.XeroxInput{
				PaperType: "a4",
				Color:     pricing.ColorBW,
				Format:    pricing.FormatFrontAndBack,
				Ratio:     pricing.RatioNormal,
				PageCount: 5,
			},
		})

		group, err := f.svc.Checkout(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, 359.0, group.Subtotal)
		assert.Equal(t, 60.0, group.DeliveryTotal)
	})

	t.Run("validation failures", func(t *testing.T) {
		f := newFixture(t)

		tests := []struct {
			name   string
			mutate func(*service.CheckoutInput)
		}{
			{"no items", func(in *service.CheckoutInput) { in.Items = nil }},
			{"missing user", func(in *service.CheckoutInput) { in.UserID = "" }},
			{"missing address", func(in *service.CheckoutInput) { in.ShippingAddress = "" }},
			{"zero quantity", func(in *service.CheckoutInput) { in.Items[0].Quantity = 0 }},
			{"unknown category", func(in *service.CheckoutInput) { in.Items[0].Category = "furniture" }},
			{"xerox config on a book", func(in *service.CheckoutInput) { in.Items[0].Xerox = &service.XeroxInput{PageCount: 5} }},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				in := itemsCheckout()
				tc.mutate(&in)

				_, err := f.svc.Checkout(ctx, in)
				assert.ErrorIs(t, err, order.ErrValidationFailed)
			})
		}
	})
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	checkout := func(t *testing.T, f *fixture) *order.Order {
		t.Helper()
		in := itemsCheckout()
		in.Items = in.Items[:1]
		group, err := f.svc.Checkout(ctx, in)
		require.NoError(t, err)
		return group.Sellers[0].Orders[0]
	}

	t.Run("confirm persists the order, a notification and an event", func(t *testing.T) {
		f := newFixture(t)
		o := checkout(t, f)

		f.advance(time.Hour)
		updated, err := f.svc.Transition(ctx, o.ID, service.TransitionRequest{Action: order.ActionConfirm})
		require.NoError(t, err)
		assert.Equal(t, order.StatusProcessing, updated.Status)
		require.NotNil(t, updated.Tracking.Confirmed)

		stored, err := f.svc.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusProcessing, stored.Status)

		notifications, err := f.svc.ListNotifications(ctx, "user-1", true)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, "Order Processing", notifications[0].Title)
		assert.Equal(t, o.ID, notifications[0].OrderID)
		assert.Equal(t, []string{"9000000001", "9000000002"}, notifications[0].SellerMobileNumbers)

		tasks := f.store.OutboxTasks()
		require.Len(t, tasks, 1)
		assert.Equal(t, "order_events", tasks[0].Topic)
		assert.Equal(t, repository.TaskStatusCreated, tasks[0].Status)
		assert.Contains(t, string(tasks[0].Payload), `"status":"Processing"`)
	})

	t.Run("failed transition leaves no side effects", func(t *testing.T) {
		f := newFixture(t)
		o := checkout(t, f)

		_, err := f.svc.Transition(ctx, o.ID, service.TransitionRequest{Action: order.ActionShip})
		assert.ErrorIs(t, err, order.ErrInvalidTransition)

		stored, err := f.svc.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPendingConfirmation, stored.Status)

		notifications, err := f.svc.ListNotifications(ctx, "user-1", false)
		require.NoError(t, err)
		assert.Empty(t, notifications)
		assert.Empty(t, f.store.OutboxTasks())
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Transition(ctx, "missing", service.TransitionRequest{Action: order.ActionConfirm})
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("return window is enforced against the service clock", func(t *testing.T) {
		f := newFixture(t)
		o := checkout(t, f)

		steps := []order.Action{
			order.ActionConfirm, order.ActionPack, order.ActionShip,
			order.ActionStartDelivery, order.ActionAwaitDeliveryConfirmation, order.ActionConfirmDelivery,
		}
		for _, action := range steps {
			f.advance(time.Hour)
			_, err := f.svc.Transition(ctx, o.ID, service.TransitionRequest{Action: action})
			require.NoError(t, err)
		}

		f.advance(order.ReturnWindow + time.Minute)
		_, err := f.svc.Transition(ctx, o.ID, service.TransitionRequest{
			Action:     order.ActionRequestReturn,
			Reason:     "wrong edition",
			ReturnType: order.ReturnRefund,
		})
		assert.ErrorIs(t, err, order.ErrPreconditionFailed)
	})

	t.Run("silent transitions create no notification", func(t *testing.T) {
		f := newFixture(t)
		o := checkout(t, f)

		f.advance(time.Hour)
		_, err := f.svc.Transition(ctx, o.ID, service.TransitionRequest{Action: order.ActionConfirm})
		require.NoError(t, err)

		notifications, err := f.svc.ListNotifications(ctx, "user-1", false)
		require.NoError(t, err)
		before := len(notifications)

		// cancel by customer notifies no one, but it is invalid here anyway;
		// use start-delivery after pack and ship, which is silent.
		for _, action := range []order.Action{order.ActionPack, order.ActionShip} {
			f.advance(time.Hour)
			_, err = f.svc.Transition(ctx, o.ID, service.TransitionRequest{Action: action})
			require.NoError(t, err)
		}
		f.advance(time.Hour)
		_, err = f.svc.Transition(ctx, o.ID, service.TransitionRequest{Action: order.ActionStartDelivery})
		require.NoError(t, err)

		notifications, err = f.svc.ListNotifications(ctx, "user-1", false)
		require.NoError(t, err)
		assert.Len(t, notifications, before+2) // pack and ship notify, start-delivery does not

		// every applied transition still lands in the outbox
		assert.Len(t, f.store.OutboxTasks(), 4)
	})
}

func TestSettleDeliveryFee(t *testing.T) {
	ctx := context.Background()

	t.Run("marks every line paid and is idempotent", func(t *testing.T) {
		f := newFixture(t)

		group, err := f.svc.Checkout(ctx, itemsCheckout())
		require.NoError(t, err)

		require.NoError(t, f.svc.SettleDeliveryFee(ctx, group.GroupID))

		view, err := f.svc.GetGroup(ctx, group.GroupID)
		require.NoError(t, err)
		for _, seller := range view.Sellers {
			for _, o := range seller.Orders {
				assert.True(t, o.DeliveryFeePaid)
			}
		}

		// Totals are frozen, settlement does not change them.
		assert.Equal(t, group.GrandTotal, view.GrandTotal)

		require.NoError(t, f.svc.SettleDeliveryFee(ctx, group.GroupID))
	})

	t.Run("unknown group", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.SettleDeliveryFee(ctx, "no-such-group")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestGetGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("groups lines by seller", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.svc.Checkout(ctx, itemsCheckout())
		require.NoError(t, err)

		view, err := f.svc.GetGroup(ctx, created.GroupID)
		require.NoError(t, err)
		require.Len(t, view.Sellers, 2)
		assert.Equal(t, "seller-1", view.Sellers[0].SellerID)
		assert.Equal(t, "seller-2", view.Sellers[1].SellerID)
		assert.Equal(t, 100.0, view.Sellers[0].Subtotal)
		assert.Equal(t, 250.0, view.Sellers[1].Subtotal)
		assert.Equal(t, view.Subtotal+view.DeliveryTotal, view.GrandTotal)
	})

	t.Run("unknown group", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.GetGroup(ctx, "no-such-group")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestQuotes(t *testing.T) {
	ctx := context.Background()

	t.Run("delivery quote with next tier", func(t *testing.T) {
		f := newFixture(t)

		quote, err := f.svc.QuoteDelivery(ctx, pricing.ContextItems, 350)
		require.NoError(t, err)
		assert.Equal(t, 40.0, quote.Charge)
		require.NotNil(t, quote.NextTier)
		assert.Equal(t, "Add items worth Rs 150.00 more for FREE delivery.", quote.NextTier.Message)
	})

	t.Run("unknown rule context", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.QuoteDelivery(ctx, "groceries", 100)
		assert.ErrorIs(t, err, order.ErrValidationFailed)
	})

	t.Run("xerox quote resolves the catalog", func(t *testing.T) {
		f := newFixture(t)

		quote, err := f.svc.QuoteXerox(ctx, &service.XeroxInput{
			PaperType: "a4",
			Color:     pricing.ColorBW,
			Format:    pricing.FormatFrontAndBack,
			Ratio:     pricing.RatioNormal,
			Binding:   "spiral",
			PageCount: 5,
		}, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, quote.Sheets)
		assert.Equal(t, 4.5, quote.PrintingCost)
		assert.Equal(t, 30.0, quote.BindingCost)
		assert.Equal(t, 34.5, quote.CopyPrice)
		assert.Equal(t, 69.0, quote.FinalPrice)
	})

	t.Run("unknown paper prices as zero", func(t *testing.T) {
		f := newFixture(t)

		quote, err := f.svc.QuoteXerox(ctx, &service.XeroxInput{
			PaperType: "parchment",
			Color:     pricing.ColorBW,
			Format:    pricing.FormatFrontOnly,
			PageCount: 5,
		}, 1)
		require.NoError(t, err)
		assert.Equal(t, 0.0, quote.FinalPrice)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.QuoteXerox(ctx, &service.XeroxInput{PaperType: "a4", PageCount: 0}, 1)
		assert.ErrorIs(t, err, order.ErrValidationFailed)

		_, err = f.svc.QuoteXerox(ctx, nil, 1)
		assert.ErrorIs(t, err, order.ErrValidationFailed)
	})
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)

	first, err := f.svc.Checkout(ctx, itemsCheckout())
	require.NoError(t, err)

	f.advance(time.Hour)
	in := itemsCheckout()
	in.Items = in.Items[:1]
	_, err = f.svc.Checkout(ctx, in)
	require.NoError(t, err)

	t.Run("lists all orders for the user", func(t *testing.T) {
		orders, err := f.svc.ListUserOrders(ctx, "user-1", 0, false)
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})

	t.Run("limit returns the most recent lines", func(t *testing.T) {
		orders, err := f.svc.ListUserOrders(ctx, "user-1", 1, false)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.NotEqual(t, first.GroupID, orders[0].GroupID)
	})

	t.Run("active filter drops terminal lines", func(t *testing.T) {
		orders, err := f.svc.ListUserOrders(ctx, "user-1", 0, true)
		require.NoError(t, err)
		require.Len(t, orders, 3)

		f.advance(time.Hour)
		_, err = f.svc.Transition(ctx, orders[0].ID, service.TransitionRequest{
			Action: order.ActionCancel,
			Reason: "changed my mind",
		})
		require.NoError(t, err)

		active, err := f.svc.ListUserOrders(ctx, "user-1", 0, true)
		require.NoError(t, err)
		assert.Len(t, active, 2)
	})

	t.Run("seller listing", func(t *testing.T) {
		orders, err := f.svc.ListSellerOrders(ctx, "seller-2")
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}

func TestNotificationReads(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)

	in := itemsCheckout()
	in.Items = in.Items[:1]
	group, err := f.svc.Checkout(ctx, in)
	require.NoError(t, err)
	orderID := group.Sellers[0].Orders[0].ID

	f.advance(time.Hour)
	_, err = f.svc.Transition(ctx, orderID, service.TransitionRequest{Action: order.ActionConfirm})
	require.NoError(t, err)

	unread, err := f.svc.ListNotifications(ctx, "user-1", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, f.svc.MarkNotificationRead(ctx, unread[0].ID))

	unread, err = f.svc.ListNotifications(ctx, "user-1", true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := f.svc.ListNotifications(ctx, "user-1", false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, f.svc.MarkNotificationRead(ctx, "missing"), repository.ErrObjectNotFound)
}

package service

import (
	"encoding/json"
	"fmt"

	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/repository"
)

func toDomain(row *repository.Order) (*order.Order, error) {
	o := &order.Order{
		ID:              row.ID,
		GroupID:         row.GroupID,
		UserID:          row.UserID,
		SellerID:        row.SellerID,
		Category:        order.Category(row.Category),
		ProductName:     row.ProductName,
		ProductImage:    row.ProductImage,
		Quantity:        row.Quantity,
		Price:           row.Price,
		DeliveryCharge:  row.DeliveryCharge,
		DeliveryFeePaid: row.IsDeliveryFeePaid,
		ShippingAddress: row.ShippingAddress,
		Mobile:          row.Mobile,
		AltMobiles:      row.AltMobiles,
		Status:          order.Status(row.Status),
		Tracking: order.Tracking{
			Ordered:              row.OrderedAt,
			Confirmed:            row.ConfirmedAt,
			Packed:               row.PackedAt,
			Shipped:              row.ShippedAt,
			OutForDelivery:       row.OutForDeliveryAt,
			Delivered:            row.DeliveredAt,
			ReturnRequested:      row.ReturnRequestedAt,
			ReturnApproved:       row.ReturnApprovedAt,
			OutForPickup:         row.OutForPickupAt,
			PickedUp:             row.PickedUpAt,
			ReturnCompleted:      row.ReturnCompletedAt,
			ReplacementConfirmed: row.ReplacementConfirmedAt,
			ReplacementCompleted: row.ReplacementCompletedAt,
			ExpectedDelivery:     row.ExpectedDeliveryAt,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.ReturnType != nil {
		o.ReturnType = order.ReturnType(*row.ReturnType)
	}
	if row.ReturnReason != nil {
		o.ReturnReason = *row.ReturnReason
	}
	if row.CancellationReason != nil {
		o.CancellationReason = *row.CancellationReason
	}
	if row.RejectionReason != nil {
		o.RejectionReason = *row.RejectionReason
	}

	if len(row.XeroxConfig) > 0 {
		var cfg order.XeroxConfig
		if err := json.Unmarshal(row.XeroxConfig, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode xerox config: %w", err)
		}
		o.Xerox = &cfg
	}

	return o, nil
}

func toDomainAll(rows []*repository.Order) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(rows))
	for _, row := range rows {
		o, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func fromDomain(o *order.Order) (*repository.Order, error) {
	row := &repository.Order{
		ID:                     o.ID,
		GroupID:                o.GroupID,
		UserID:                 o.UserID,
		SellerID:               o.SellerID,
		Category:               string(o.Category),
		ProductName:            o.ProductName,
		ProductImage:           o.ProductImage,
		Quantity:               o.Quantity,
		Price:                  o.Price,
		DeliveryCharge:         o.DeliveryCharge,
		IsDeliveryFeePaid:      o.DeliveryFeePaid,
		ShippingAddress:        o.ShippingAddress,
		Mobile:                 o.Mobile,
		AltMobiles:             o.AltMobiles,
		Status:                 string(o.Status),
		OrderedAt:              o.Tracking.Ordered,
		ConfirmedAt:            o.Tracking.Confirmed,
		PackedAt:               o.Tracking.Packed,
		ShippedAt:              o.Tracking.Shipped,
		OutForDeliveryAt:       o.Tracking.OutForDelivery,
		DeliveredAt:            o.Tracking.Delivered,
		ReturnRequestedAt:      o.Tracking.ReturnRequested,
		ReturnApprovedAt:       o.Tracking.ReturnApproved,
		OutForPickupAt:         o.Tracking.OutForPickup,
		PickedUpAt:             o.Tracking.PickedUp,
		ReturnCompletedAt:      o.Tracking.ReturnCompleted,
		ReplacementConfirmedAt: o.Tracking.ReplacementConfirmed,
		ReplacementCompletedAt: o.Tracking.ReplacementCompleted,
		ExpectedDeliveryAt:     o.Tracking.ExpectedDelivery,
		CreatedAt:              o.CreatedAt,
		UpdatedAt:              o.UpdatedAt,
	}

	if o.ReturnType != "" {
		rt := string(o.ReturnType)
		row.ReturnType = &rt
	}
	if o.ReturnReason != "" {
		v := o.ReturnReason
		row.ReturnReason = &v
	}
	if o.CancellationReason != "" {
		v := o.CancellationReason
		row.CancellationReason = &v
	}
	if o.RejectionReason != "" {
		v := o.RejectionReason
		row.RejectionReason = &v
	}

	if o.Xerox != nil {
		raw, err := json.Marshal(o.Xerox)
		if err != nil {
			return nil, fmt.Errorf("failed to encode xerox config: %w", err)
		}
		row.XeroxConfig = raw
	}

	return row, nil
}

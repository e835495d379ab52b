package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/pricing"
	"github.com/printhub-store/backend/internal/repository"
)

func (s *OrderService) deliveryRules(ctx context.Context, ruleCtx pricing.RuleContext) ([]pricing.DeliveryChargeRule, error) {
	rows, err := s.pricingCfg.GetDeliveryRules(ctx, string(ruleCtx))
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery rules: %w", err)
	}
	rules := make([]pricing.DeliveryChargeRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, pricing.DeliveryChargeRule{
			From:   row.FromAmount,
			To:     row.ToAmount,
			Charge: row.Charge,
		})
	}
	return rules, nil
}

// QuoteDelivery evaluates the live rule set for a subtotal. Used by the
// storefront cart to show the charge and the next cheaper tier.
func (s *OrderService) QuoteDelivery(ctx context.Context, ruleCtx pricing.RuleContext, subtotal float64) (*pricing.Quote, error) {
	if ruleCtx != pricing.ContextItems && ruleCtx != pricing.ContextXerox {
		return nil, fmt.Errorf("%w: unknown rule context %q", order.ErrValidationFailed, ruleCtx)
	}
	rules, err := s.deliveryRules(ctx, ruleCtx)
	if err != nil {
		return nil, err
	}
	quote := pricing.Evaluate(rules, subtotal)
	return &quote, nil
}

// QuoteXerox prices a print configuration against the live catalogs.
// Used interactively while the customer tweaks options.
func (s *OrderService) QuoteXerox(ctx context.Context, in *XeroxInput, quantity int) (*pricing.PrintQuote, error) {
	if in == nil || in.PageCount <= 0 || quantity <= 0 {
		return nil, fmt.Errorf("%w: page count and quantity must be positive", order.ErrValidationFailed)
	}
	quote, _, err := s.priceXerox(ctx, in, quantity)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// priceXerox resolves the catalog options and runs the calculator.
// Missing catalog entries contribute zero rather than failing; pricing
// never blocks a checkout over a stale configuration.
func (s *OrderService) priceXerox(ctx context.Context, in *XeroxInput, quantity int) (*pricing.PrintQuote, *order.XeroxConfig, error) {
	paper, err := s.lookupPaper(ctx, in.PaperType)
	if err != nil {
		return nil, nil, err
	}
	binding, err := s.lookupFinishing(ctx, s.pricingCfg.GetBindingOption, in.Binding)
	if err != nil {
		return nil, nil, err
	}
	lamination, err := s.lookupFinishing(ctx, s.pricingCfg.GetLaminationOption, in.Lamination)
	if err != nil {
		return nil, nil, err
	}

	quote := pricing.CalculatePrint(pricing.PrintJob{
		Paper:      paper,
		Color:      in.Color,
		Format:     in.Format,
		Ratio:      in.Ratio,
		Binding:    binding,
		Lamination: lamination,
		PageCount:  in.PageCount,
		Quantity:   quantity,
	})

	cfg := &order.XeroxConfig{
		PaperType:    in.PaperType,
		Color:        in.Color,
		Format:       in.Format,
		Ratio:        in.Ratio,
		Binding:      in.Binding,
		Lamination:   in.Lamination,
		PageCount:    in.PageCount,
		Copies:       quantity,
		Instructions: in.Instructions,
		PricePerPage: quote.PricePerPage,
		DocumentURL:  in.DocumentURL,
	}

	return &quote, cfg, nil
}

func (s *OrderService) lookupPaper(ctx context.Context, name string) (*pricing.PaperType, error) {
	if name == "" {
		return nil, nil
	}
	row, err := s.pricingCfg.GetPaperType(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load paper type %s: %w", name, err)
	}
	return &pricing.PaperType{
		Name:            row.Name,
		PriceBWFront:    row.PriceBWFront,
		PriceBWBoth:     row.PriceBWBoth,
		PriceColorFront: row.PriceColorFront,
		PriceColorBoth:  row.PriceColorBoth,
	}, nil
}

func (s *OrderService) lookupFinishing(
	ctx context.Context,
	get func(context.Context, string) (*repository.FinishingOption, error),
	name string,
) (*pricing.FinishingOption, error) {
	if name == "" || name == pricing.FinishingNone {
		return nil, nil
	}
	row, err := get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load finishing option %s: %w", name, err)
	}
	return &pricing.FinishingOption{Name: row.Name, Price: row.Price}, nil
}

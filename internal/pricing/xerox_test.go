package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/printhub-store/backend/internal/pricing"
)

var a4 = &pricing.PaperType{
	Name:            "a4",
	PriceBWFront:    2,
	PriceBWBoth:     1.5,
	PriceColorFront: 5,
	PriceColorBoth:  4,
}

func TestCalculatePrint(t *testing.T) {
	t.Run("front and back halves the sheet count", func(t *testing.T) {
		quote := pricing.CalculatePrint(pricing.PrintJob{
			Paper:     a4,
			Color:     pricing.ColorBW,
			Format:    pricing.FormatFrontAndBack,
			Ratio:     pricing.RatioNormal,
			PageCount: 5,
			Quantity:  2,
		})

		assert.Equal(t, 1.5, quote.PricePerPage)
		assert.Equal(t, 3, quote.Sheets)
		assert.Equal(t, 4.5, quote.PrintingCost)
		assert.Equal(t, 4.5, quote.CopyPrice)
		assert.Equal(t, 9.0, quote.FinalPrice)
	})

	t.Run("front only uses the page count as sheets", func(t *testing.T) {
		quote := pricing.CalculatePrint(pricing.PrintJob{
			Paper:     a4,
			Color:     pricing.ColorBW,
			Format:    pricing.FormatFrontOnly,
			Ratio:     pricing.RatioNormal,
			PageCount: 5,
			Quantity:  1,
		})

		assert.Equal(t, 2.0, quote.PricePerPage)
		assert.Equal(t, 5, quote.Sheets)
		assert.Equal(t, 10.0, quote.FinalPrice)
	})

	t.Run("two per sheet halves the rate", func(t *testing.T) {
		quote := pricing.CalculatePrint(pricing.PrintJob{
			Paper:     a4,
			Color:     pricing.ColorBW,
			Format:    pricing.FormatFrontOnly,
			Ratio:     pricing.RatioTwoPerSheet,
			PageCount: 4,
			Quantity:  1,
		})

		assert.Equal(t, 1.0, quote.PricePerPage)
		assert.Equal(t, 4, quote.Sheets)
		assert.Equal(t, 4.0, quote.FinalPrice)
	})

	t.Run("color rates", func(t *testing.T) {
		quote := pricing.CalculatePrint(pricing.PrintJob{
			Paper:     a4,
			Color:     pricing.ColorColor,
			Format:    pricing.FormatFrontAndBack,
			Ratio:     pricing.RatioNormal,
			PageCount: 4,
			Quantity:  1,
		})

		assert.Equal(t, 4.0, quote.PricePerPage)
		assert.Equal(t, 2, quote.Sheets)
		assert.Equal(t, 8.0, quote.FinalPrice)
	})

	t.Run("binding and lamination are flat per copy", func(t *testing.T) {
		quote := pricing.CalculatePrint(pricing.PrintJob{
			Paper:      a4,
			Color:      pricing.ColorBW,
			Format:     pricing.FormatFrontOnly,
			Ratio:      pricing.RatioNormal,
			Binding:    &pricing.FinishingOption{Name: "spiral", Price: 30},
			Lamination: &pricing.FinishingOption{Name: "glossy", Price: 20},
			PageCount:  10,
			Quantity:   3,
		})

		assert.Equal(t, 20.0, quote.PrintingCost)
		assert.Equal(t, 30.0, quote.BindingCost)
		assert.Equal(t, 20.0, quote.LaminationCost)
		assert.Equal(t, 70.0, quote.CopyPrice)
		assert.Equal(t, 210.0, quote.FinalPrice)
	})

	t.Run("odd page count rounds sheets up", func(t *testing.T) {
		quote := pricing.CalculatePrint(pricing.PrintJob{
			Paper:     a4,
			Color:     pricing.ColorBW,
			Format:    pricing.FormatFrontAndBack,
			Ratio:     pricing.RatioNormal,
			PageCount: 1,
			Quantity:  1,
		})

		assert.Equal(t, 1, quote.Sheets)
		assert.Equal(t, 1.5, quote.FinalPrice)
	})

	t.Run("missing paper contributes zero", func(t *testing.T) {
		quote := pricing.CalculatePrint(pricing.PrintJob{
			Color:     pricing.ColorBW,
			Format:    pricing.FormatFrontOnly,
			Ratio:     pricing.RatioNormal,
			Binding:   &pricing.FinishingOption{Name: "spiral", Price: 30},
			PageCount: 10,
			Quantity:  2,
		})

		assert.Equal(t, 0.0, quote.PrintingCost)
		assert.Equal(t, 30.0, quote.CopyPrice)
		assert.Equal(t, 60.0, quote.FinalPrice)
	})

	t.Run("non-positive inputs yield an empty quote", func(t *testing.T) {
		assert.Equal(t, pricing.PrintQuote{}, pricing.CalculatePrint(pricing.PrintJob{Paper: a4, PageCount: 0, Quantity: 1}))
		assert.Equal(t, pricing.PrintQuote{}, pricing.CalculatePrint(pricing.PrintJob{Paper: a4, PageCount: 5, Quantity: 0}))
	})
}

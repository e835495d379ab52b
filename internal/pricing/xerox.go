package pricing

import "math"

// Print option enums. Stored as plain strings on the order snapshot;
// unknown values simply contribute nothing to the price, configuration
// validity is the admin surface's problem.
const (
	ColorBW    = "bw"
	ColorColor = "color"

	FormatFrontOnly    = "front"
	FormatFrontAndBack = "front-and-back"

	RatioNormal      = "normal"
	RatioTwoPerSheet = "two-per-sheet"
	FinishingNone    = "none"
)

// PaperType carries the four configured per-page rates for one paper.
type PaperType struct {
	Name            string  `json:"name"`
	PriceBWFront    float64 `json:"price_bw_front"`
	PriceBWBoth     float64 `json:"price_bw_both"`
	PriceColorFront float64 `json:"price_color_front"`
	PriceColorBoth  float64 `json:"price_color_both"`
}

// FinishingOption is a flat per-copy fee (binding or lamination).
type FinishingOption struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// PrintJob is one print configuration to be priced.
type PrintJob struct {
	Paper      *PaperType
	Color      string
	Format     string
	Ratio      string
	Binding    *FinishingOption
	Lamination *FinishingOption
	PageCount  int
	Quantity   int
}

// PrintQuote breaks down the price of a print job.
type PrintQuote struct {
	PricePerPage   float64 `json:"price_per_page"`
	Sheets         int     `json:"sheets"`
	PrintingCost   float64 `json:"printing_cost"`
	BindingCost    float64 `json:"binding_cost"`
	LaminationCost float64 `json:"lamination_cost"`
	CopyPrice      float64 `json:"copy_price"`
	FinalPrice     float64 `json:"final_price"`
}

// CalculatePrint prices a print job. The calculator charges per
// physical sheet: front-and-back fits two logical pages on one sheet,
// and a two-per-sheet ratio halves the per-sheet rate. Binding and
// lamination are flat per copy; quantity multiplies the whole per-copy
// price. Missing lookups contribute zero, the calculator never fails.
func CalculatePrint(job PrintJob) PrintQuote {
	var quote PrintQuote

	if job.PageCount <= 0 || job.Quantity <= 0 {
		return quote
	}

	rate := pageRate(job.Paper, job.Color, job.Format)
	if job.Ratio == RatioTwoPerSheet {
		rate /= 2
	}

	sheets := job.PageCount
	if job.Format == FormatFrontAndBack {
		sheets = int(math.Ceil(float64(job.PageCount) / 2))
	}

	quote.PricePerPage = rate
	quote.Sheets = sheets
	quote.PrintingCost = float64(sheets) * rate
	if job.Binding != nil {
		quote.BindingCost = job.Binding.Price
	}
	if job.Lamination != nil {
		quote.LaminationCost = job.Lamination.Price
	}

	quote.CopyPrice = quote.PrintingCost + quote.BindingCost + quote.LaminationCost
	quote.FinalPrice = quote.CopyPrice * float64(job.Quantity)

	return quote
}

func pageRate(paper *PaperType, color, format string) float64 {
	if paper == nil {
		return 0
	}
	both := format == FormatFrontAndBack
	if color == ColorColor {
		if both {
			return paper.PriceColorBoth
		}
		return paper.PriceColorFront
	}
	if both {
		return paper.PriceBWBoth
	}
	return paper.PriceBWFront
}

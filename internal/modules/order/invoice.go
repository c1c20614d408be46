// README: Per-order PDF cost sheet.
package order

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"orderdesk/internal/modules/pricing"
)

// Trip returns the fields the cost depends on.
func (o Order) Trip() pricing.TripInput {
	return pricing.TripInput{
		SourceCity:      o.SourceCity,
		DestinationCity: o.DestinationCity,
		DepartureDate:   o.DepartureDate,
		ArrivalDate:     o.ArrivalDate,
		BogieCount:      o.BogieCount,
		WheelCount:      o.WheelCount,
	}
}

// RenderInvoice builds the cost sheet for o. q must be the quote for o.Trip();
// its total is printed as the order's total.
func RenderInvoice(o Order, q pricing.Quote) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Order cost sheet", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "ORDER COST SHEET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Order        : %s", o.ID),
		fmt.Sprintf("Route        : %s (%s) -> %s (%s)", o.SourceCity, q.SourceCode, o.DestinationCity, q.DestinationCode),
		fmt.Sprintf("Distance     : %d km", q.DistanceKm),
		fmt.Sprintf("Departure    : %s", o.DepartureDate.UTC().Format(time.DateOnly)),
		fmt.Sprintf("Arrival      : %s", o.ArrivalDate.UTC().Format(time.DateOnly)),
		fmt.Sprintf("Days         : %d", q.TotalDays),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Breakdown:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, s := range costLines(o, q) {
		pdf.Cell(0, 6, s)
		pdf.Ln(6)
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %d", q.TotalCost))
	pdf.Ln(12)

	if q.DistanceKm == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "No distance is known for this city pair; the order carries no charge.", "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("order_%s.pdf", o.ID), nil
}

// costLines itemises the charge. A trip that departs and arrives within the
// same day is free, so it gets no equipment lines.
func costLines(o Order, q pricing.Quote) []string {
	if q.TotalDays == 0 {
		return []string{"Same-day trip: no charge"}
	}
	bogieCost := int64(o.BogieCount) * q.DistanceKm * pricing.BogieCostPerKm
	wheelCost := int64(o.WheelCount) * q.DistanceKm * pricing.WheelCostPerKm
	lines := []string{
		fmt.Sprintf("Bogies  %d x %d km x %d = %d", o.BogieCount, q.DistanceKm, pricing.BogieCostPerKm, bogieCost),
		fmt.Sprintf("Wheels  %d x %d km x %d = %d", o.WheelCount, q.DistanceKm, pricing.WheelCostPerKm, wheelCost),
	}
	if q.Deduction != 0 {
		lines = append(lines, fmt.Sprintf("Less    %d (%d days)", q.Deduction, q.TotalDays))
	}
	return lines
}

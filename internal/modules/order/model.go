// README: Order record and the write command that produces it.
package order

import (
	"time"

	"orderdesk/internal/modules/pricing"
	"orderdesk/internal/types"
)

type Order struct {
	ID              types.ID  `json:"id"`
	SourceCity      string    `json:"source_city"`
	DestinationCity string    `json:"destination_city"`
	DepartureDate   time.Time `json:"departure_date"`
	ArrivalDate     time.Time `json:"arrival_date"`
	BogieCount      int       `json:"bogie_count"`
	WheelCount      int       `json:"wheel_count"`
	TotalDays       int       `json:"total_days"`
	TotalCost       int64     `json:"total_cost"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpsertCommand carries only caller-editable fields. Totals are always derived.
type UpsertCommand struct {
	ID              types.ID
	SourceCity      string
	DestinationCity string
	DepartureDate   time.Time
	ArrivalDate     time.Time
	BogieCount      int
	WheelCount      int
}

func (c UpsertCommand) tripInput() pricing.TripInput {
	return pricing.TripInput{
		SourceCity:      c.SourceCity,
		DestinationCity: c.DestinationCity,
		DepartureDate:   c.DepartureDate,
		ArrivalDate:     c.ArrivalDate,
		BogieCount:      c.BogieCount,
		WheelCount:      c.WheelCount,
	}
}

// README: Trip input/result types and per-km rates.
package pricing

import "time"

const (
	BogieCostPerKm = 50
	WheelCostPerKm = 30

	// Trips longer than this many days earn a per-day deduction.
	deductionFreeDays = 6
	deductionPerDay   = 1000

	millisPerDay = 24 * 3600 * 1000
)

// TripInput is the immutable set of order fields the cost depends on.
type TripInput struct {
	SourceCity      string
	DestinationCity string
	DepartureDate   time.Time
	ArrivalDate     time.Time
	BogieCount      int
	WheelCount      int
}

type TripResult struct {
	TotalDays int
	TotalCost int64
}

// Quote is TripResult plus the lookup details, for callers that want to show their work.
type Quote struct {
	SourceCode      string
	DestinationCode string
	DistanceKm      int64
	// Deduction is the long-trip amount subtracted from the equipment charge.
	Deduction int64
	TripResult
}

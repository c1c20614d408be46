// README: Pricing service computes trip duration and total cost.
package pricing

// ComputeTrip derives the trip duration and cost using the built-in distance table.
func ComputeTrip(in TripInput) TripResult {
	return computeTrip(DefaultDistances, in).TripResult
}

type Service struct {
	distances DistanceTable
}

// NewService returns a Service over the given table; nil means DefaultDistances.
func NewService(distances DistanceTable) *Service {
	if distances == nil {
		distances = DefaultDistances
	}
	return &Service{distances: distances}
}

func (s *Service) ComputeTrip(in TripInput) TripResult {
	return computeTrip(s.distances, in).TripResult
}

func (s *Service) Quote(in TripInput) Quote {
	return computeTrip(s.distances, in)
}

func (s *Service) Distance(sourceCity, destinationCity string) int64 {
	return s.distances.Lookup(CityCode(sourceCity), CityCode(destinationCity))
}

// computeTrip never fails: unknown cities give zero distance and any day count,
// including a negative one, is accepted as is.
func computeTrip(distances DistanceTable, in TripInput) Quote {
	q := Quote{
		SourceCode:      CityCode(in.SourceCity),
		DestinationCode: CityCode(in.DestinationCity),
	}
	q.DistanceKm = distances.Lookup(q.SourceCode, q.DestinationCode)
	q.TotalDays = int((in.ArrivalDate.UnixMilli() - in.DepartureDate.UnixMilli()) / millisPerDay)
	if q.TotalDays == 0 {
		return q
	}

	if q.TotalDays > deductionFreeDays && q.DistanceKm > 0 {
		q.Deduction = int64(q.TotalDays-deductionFreeDays) * deductionPerDay
	}
	q.TotalCost = int64(in.BogieCount)*q.DistanceKm*BogieCostPerKm +
		int64(in.WheelCount)*q.DistanceKm*WheelCostPerKm -
		q.Deduction
	return q
}

package pricing

// DistanceTable maps an unordered pair of city codes to kilometres.
// Each pair is stored once; Lookup checks both orderings.
type DistanceTable map[[2]string]int64

// DefaultDistances is the built-in table.
var DefaultDistances = DistanceTable{
	{"Del", "Mum"}: 1412,
	{"Del", "Che"}: 2192,
	{"Mum", "Che"}: 1335,
}

// Lookup returns the distance between two codes, or 0 for an unknown pair.
func (t DistanceTable) Lookup(a, b string) int64 {
	if d, ok := t[[2]string{a, b}]; ok {
		return d
	}
	if d, ok := t[[2]string{b, a}]; ok {
		return d
	}
	return 0
}

// CityCode is the first three characters of a city name. It is case-sensitive
// and does no trimming, so "delhi" and "Delhi" produce different codes.
func CityCode(city string) string {
	r := []rune(city)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

package domain

// Transport vehicle from the fleet registry. The optimizer only ever sees
// active vehicles supplied by the caller, already filtered upstream.
type Vehicle struct {
	ID              int
	LicensePlate    string
	Description     string
	Capacity        int
	DefaultDriverID *int
	Active          bool
}

package domain

// Driver from the fleet registry. The on-call flag is supplied per run by
// the caller, not stored on the entity.
type Driver struct {
	ID     int
	Name   string
	Active bool
}

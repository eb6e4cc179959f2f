package domain

// TravelTimeMatrix holds all-pairs travel durations in seconds between the
// depot and the day's appointments. Index 0 is the depot; indices 1..N map
// 1:1 onto the appointment list order used to build the matrix. Symmetric
// by construction: each unordered pair is computed once and mirrored.
type TravelTimeMatrix [][]int

func NewTravelTimeMatrix(size int) TravelTimeMatrix {
	m := make(TravelTimeMatrix, size)
	for i := range m {
		m[i] = make([]int, size)
	}
	return m
}

// At returns the travel time in seconds from node i to node j.
func (m TravelTimeMatrix) At(i, j int) int { return m[i][j] }

// Set mirrors the value into both directions.
func (m TravelTimeMatrix) Set(i, j, seconds int) {
	m[i][j] = seconds
	m[j][i] = seconds
}

func (m TravelTimeMatrix) Size() int { return len(m) }

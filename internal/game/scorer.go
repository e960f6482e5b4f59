package game

import "fmt"

// Step maps an upper elapsed-time bound (inclusive, in seconds) to a point
// value.
type Step struct {
	MaxElapsed int
	Points     int
}

// Scorer converts elapsed time at correctness and arrival order into points.
// The first correct responder of a round always receives the maximum; later
// responders walk down a step table keyed on elapsed seconds since round
// start, with a floor of one point.
type Scorer struct {
	max   int
	steps []Step
	floor int
}

// NewScorer returns a scorer with the default table: 10 for the first correct
// answer, then 9 down to 1 as the round ages.
func NewScorer() *Scorer {
	s, err := NewScorerWithTable(10, []Step{
		{MaxElapsed: 4, Points: 9},
		{MaxElapsed: 6, Points: 8},
		{MaxElapsed: 8, Points: 7},
		{MaxElapsed: 10, Points: 6},
		{MaxElapsed: 12, Points: 5},
		{MaxElapsed: 14, Points: 4},
		{MaxElapsed: 16, Points: 2},
	}, 1)
	if err != nil {
		panic(err) // default table is statically valid
	}
	return s
}

// NewScorerWithTable builds a scorer from a custom table. Bounds must be
// strictly increasing and points strictly decreasing, ending above the floor,
// so the award is monotonically non-increasing and total over all elapsed
// times.
func NewScorerWithTable(max int, steps []Step, floor int) (*Scorer, error) {
	if floor < 1 {
		return nil, fmt.Errorf("floor must be at least 1, got %d", floor)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("step table must not be empty")
	}
	if steps[0].Points >= max {
		return nil, fmt.Errorf("first step points %d must be below max %d", steps[0].Points, max)
	}
	for i, st := range steps {
		if st.MaxElapsed < 0 {
			return nil, fmt.Errorf("step %d has negative bound", i)
		}
		if i > 0 {
			if st.MaxElapsed <= steps[i-1].MaxElapsed {
				return nil, fmt.Errorf("step bounds must be strictly increasing at index %d", i)
			}
			if st.Points >= steps[i-1].Points {
				return nil, fmt.Errorf("step points must be strictly decreasing at index %d", i)
			}
		}
	}
	if steps[len(steps)-1].Points <= floor {
		return nil, fmt.Errorf("last step points %d must be above floor %d", steps[len(steps)-1].Points, floor)
	}
	return &Scorer{max: max, steps: steps, floor: floor}, nil
}

// Award returns the points for a correct answer submitted elapsedSeconds after
// round start. Always at least the floor.
func (s *Scorer) Award(elapsedSeconds int, first bool) int {
	if first {
		return s.max
	}
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	for _, st := range s.steps {
		if elapsedSeconds <= st.MaxElapsed {
			return st.Points
		}
	}
	return s.floor
}

// Max returns the points awarded to the first correct responder.
func (s *Scorer) Max() int {
	return s.max
}

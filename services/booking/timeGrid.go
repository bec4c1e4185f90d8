package booking

import (
	"iter"

	"shinely/models"
)

// DefaultGranularity is the spacing of candidate starts, in minutes.
const DefaultGranularity = 30

// TimeGrid yields candidate start minutes from open through close-granularity.
// A closed day yields nothing. The sequence can be ranged over repeatedly.
func TimeGrid(hours models.DayHours, granularity int) iter.Seq[int] {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	return func(yield func(int) bool) {
		if hours.Closed() {
			return
		}
		for t := hours.Open; t+granularity <= hours.Close; t += granularity {
			if !yield(t) {
				return
			}
		}
	}
}

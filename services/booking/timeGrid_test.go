package booking

import (
	"slices"
	"testing"

	"shinely/models"

	"github.com/stretchr/testify/assert"
)

func TestTimeGrid(t *testing.T) {
	tests := []struct {
		name        string
		hours       models.DayHours
		granularity int
		want        []int
	}{
		{"two hours", models.DayHours{Open: 540, Close: 660}, 30, []int{540, 570, 600, 630}},
		{"closed day", models.DayHours{Open: 540, Close: 540}, 30, nil},
		{"ragged close", models.DayHours{Open: 540, Close: 620}, 30, []int{540, 570}},
		{"default granularity", models.DayHours{Open: 0, Close: 60}, 0, []int{0, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slices.Collect(TimeGrid(tt.hours, tt.granularity)))
		})
	}
}

func TestTimeGridRestartable(t *testing.T) {
	grid := TimeGrid(models.DayHours{Open: 540, Close: 1020}, 30)
	first := slices.Collect(grid)
	second := slices.Collect(grid)
	assert.Len(t, first, 16)
	assert.Equal(t, first, second)

	var taken []int
	for start := range grid {
		if len(taken) == 2 {
			break
		}
		taken = append(taken, start)
	}
	assert.Equal(t, []int{540, 570}, taken)
}

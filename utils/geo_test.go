package utils

import (
	"testing"

	"shinely/models"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	a := models.NewGeoPoint(40.7128, -74.0060)
	assert.InDelta(t, 0, DistanceMeters(a, a), 1e-6)

	// One thousandth of a degree of latitude is about 111 m.
	b := models.NewGeoPoint(40.7138, -74.0060)
	assert.InDelta(t, 111, DistanceMeters(a, b), 1)
}

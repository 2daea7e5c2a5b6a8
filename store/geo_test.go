package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	helsinki := Position{Lon: 24.9384, Lat: 60.1699}
	tampere := Position{Lon: 23.7871, Lat: 61.4991}

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, helsinki.DistanceKm(tampere), tampere.DistanceKm(helsinki))
	})

	t.Run("zero at identity", func(t *testing.T) {
		assert.Equal(t, 0.0, helsinki.DistanceKm(helsinki))
		assert.Equal(t, 0.0, Position{}.DistanceKm(Position{}))
	})

	t.Run("one degree of longitude on the equator", func(t *testing.T) {
		d := Position{}.DistanceKm(Position{Lon: 1})
		assert.InDelta(t, 111.19, d, 0.01)
	})

	t.Run("helsinki to tampere", func(t *testing.T) {
		d := helsinki.DistanceKm(tampere)
		assert.InDelta(t, 160, d, 5)
	})
}

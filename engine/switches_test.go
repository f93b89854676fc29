package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSwitches(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		assert.Equal(t, switches{order: 1}, parseSwitches(""))
	})

	t.Run("session default", func(t *testing.T) {
		sw := parseSwitches("pzq27eQ")
		assert.Equal(t, switches{poly: true, zeroBased: true, edges: true, quiet: true, order: 1}, sw)
	})

	t.Run("numeric arguments are skipped", func(t *testing.T) {
		// The digits after q and a would otherwise be ignored anyway, but the
		// letters inside "a0.5" must not turn into switches.
		sw := parseSwitches("-pq30.5a0.25S10zA")
		assert.True(t, sw.poly)
		assert.True(t, sw.zeroBased)
		assert.True(t, sw.regionAttributes)
		assert.False(t, sw.edges)
	})

	t.Run("second order", func(t *testing.T) {
		assert.Equal(t, 2, parseSwitches("zo2").order)
		assert.Equal(t, 1, parseSwitches("zo").order)
	})

	t.Run("everything", func(t *testing.T) {
		sw := parseSwitches("zpcrnevABOQV")
		assert.Equal(t, switches{
			zeroBased:         true,
			poly:              true,
			convex:            true,
			refine:            true,
			neighbors:         true,
			edges:             true,
			voronoi:           true,
			regionAttributes:  true,
			noBoundaryMarkers: true,
			noHoles:           true,
			quiet:             true,
			verbose:           true,
			order:             1,
		}, sw)
	})

	t.Run("unknown letters are ignored", func(t *testing.T) {
		assert.Equal(t, switches{order: 1, neighbors: true}, parseSwitches("XYn"))
	})
}

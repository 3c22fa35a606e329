package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapper(t *testing.T) {
	t.Run("percent to pixels", func(t *testing.T) {
		m := NewMapper(1000, 800)
		assert.Equal(t, Vec{500, 400}, m.Point(Point{50, 50}))
		assert.InDelta(t, 250.0, m.X(25), 1e-9)
		assert.InDelta(t, 800.0, m.Y(100), 1e-9)
	})

	t.Run("scale factor", func(t *testing.T) {
		test := []struct {
			name   string
			width  int
			factor float64
		}{
			{"reference", 1000, 1},
			{"half", 500, 0.5},
			{"large", 4000, 4},
			{"zero", 0, 0},
			{"negative", -10, 0},
		}
		for _, tt := range test {
			t.Run(tt.name, func(t *testing.T) {
				m := NewMapper(tt.width, 10)
				assert.InDelta(t, tt.factor, m.Factor(), 1e-9)
				assert.InDelta(t, 32*tt.factor, m.Size(32), 1e-9)
			})
		}
	})

	t.Run("logo width", func(t *testing.T) {
		assert.InDelta(t, 256.0, NewMapper(2000, 10).LogoWidth(32), 1e-9)
		assert.Zero(t, NewMapper(0, 0).LogoWidth(32))
	})

	t.Run("brush width", func(t *testing.T) {
		assert.InDelta(t, 200.0, NewMapper(4000, 3000).Brush(5), 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, NewMapper(0, 10).Empty())
		assert.True(t, NewMapper(10, -1).Empty())
		assert.False(t, NewMapper(1, 1).Empty())
	})
}

func TestUniformZoom(t *testing.T) {
	small := NewMapper(640, 480)
	large := NewMapper(3200, 2400)
	k := float64(large.Width) / float64(small.Width)
	p := Point{X: 37.5, Y: 81.25}

	assert.InDelta(t, small.Point(p).X*k, large.Point(p).X, 1e-9)
	assert.InDelta(t, small.Point(p).Y*k, large.Point(p).Y, 1e-9)
	assert.InDelta(t, small.Size(20)*k, large.Size(20), 1e-9)
	assert.InDelta(t, small.Brush(5)*k, large.Brush(5), 1e-9)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Point{X: 25, Y: 50}, Normalize(100, 100, Size{W: 400, H: 200}))
	assert.Equal(t, Point{}, Normalize(10, 10, Size{}))
	assert.Equal(t, 100.0, ClampPercent(140))
	assert.Equal(t, 0.0, ClampPercent(-3))
}

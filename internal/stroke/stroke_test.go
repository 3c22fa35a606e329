package stroke

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"cleanlens/pkg/geom"
)

var red = color.NRGBA{R: 255, A: 255}

func canvas(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

func alphaAt(img *image.NRGBA, x, y int) uint8 {
	return img.NRGBAAt(x, y).A
}

func TestPolyline(t *testing.T) {
	t.Run("horizontal line covers its width", func(t *testing.T) {
		img := canvas(100, 100)
		Polyline(img, []geom.Vec{{X: 10, Y: 50}, {X: 90, Y: 50}}, false, Style{Width: 10, Cap: CapButt, Color: red})

		assert.Equal(t, uint8(255), alphaAt(img, 50, 50))
		assert.Equal(t, uint8(255), alphaAt(img, 50, 46))
		assert.Zero(t, alphaAt(img, 50, 40))
		// butt cap stops at the end point
		assert.Zero(t, alphaAt(img, 5, 50))
	})

	t.Run("round cap extends past the end", func(t *testing.T) {
		img := canvas(100, 100)
		Polyline(img, []geom.Vec{{X: 20, Y: 50}, {X: 80, Y: 50}}, false, Style{Width: 20, Cap: CapRound, Color: red})

		assert.Equal(t, uint8(255), alphaAt(img, 13, 50))
		assert.Zero(t, alphaAt(img, 5, 50))
	})

	t.Run("single point with round cap is a dot", func(t *testing.T) {
		img := canvas(50, 50)
		Polyline(img, []geom.Vec{{X: 25, Y: 25}}, false, Style{Width: 10, Cap: CapRound, Color: red})

		assert.Equal(t, uint8(255), alphaAt(img, 25, 25))
		assert.Zero(t, alphaAt(img, 25, 35))
	})

	t.Run("self overlap blends once", func(t *testing.T) {
		img := canvas(100, 100)
		half := color.NRGBA{R: 255, A: 128}
		Polyline(img, []geom.Vec{{X: 10, Y: 50}, {X: 90, Y: 50}, {X: 10, Y: 50}}, false, Style{Width: 10, Cap: CapRound, Color: half})

		assert.InDelta(t, 128, int(alphaAt(img, 50, 50)), 2)
	})

	t.Run("off canvas is clipped", func(t *testing.T) {
		img := canvas(20, 20)
		assert.NotPanics(t, func() {
			Polyline(img, []geom.Vec{{X: -50, Y: -50}, {X: 70, Y: 70}}, false, Style{Width: 4, Cap: CapRound, Color: red})
			Polyline(img, []geom.Vec{{X: -50, Y: -50}, {X: -10, Y: -10}}, false, Style{Width: 4, Cap: CapRound, Color: red})
		})
		assert.Equal(t, uint8(255), alphaAt(img, 10, 10))
	})

	t.Run("zero width draws nothing", func(t *testing.T) {
		img := canvas(20, 20)
		Polyline(img, []geom.Vec{{X: 0, Y: 10}, {X: 20, Y: 10}}, false, Style{Width: 0, Color: red})
		assert.Zero(t, alphaAt(img, 10, 10))
	})
}

func TestCircle(t *testing.T) {
	img := canvas(100, 100)
	Circle(img, geom.Vec{X: 50, Y: 50}, 30, Style{Width: 4, Color: red})

	assert.Equal(t, uint8(255), alphaAt(img, 80, 50))
	assert.Equal(t, uint8(255), alphaAt(img, 50, 20))
	assert.Zero(t, alphaAt(img, 50, 50), "ring must stay hollow")
	assert.Zero(t, alphaAt(img, 90, 50))
}

func TestRoundedRect(t *testing.T) {
	t.Run("rectangle", func(t *testing.T) {
		img := canvas(100, 100)
		RoundedRect(img, geom.Vec{X: 50, Y: 50}, 60, 40, 0, Style{Width: 2, Color: red})

		assert.Equal(t, uint8(255), alphaAt(img, 50, 30))
		assert.Equal(t, uint8(255), alphaAt(img, 20, 50))
		assert.Zero(t, alphaAt(img, 50, 50))
		assert.Zero(t, alphaAt(img, 50, 25))
	})

	t.Run("pill", func(t *testing.T) {
		img := canvas(120, 100)
		RoundedRect(img, geom.Vec{X: 60, Y: 50}, 100, 40, 20, Style{Width: 2, Color: red})

		assert.Equal(t, uint8(255), alphaAt(img, 60, 30))
		// the sharp corner is cut by the radius
		assert.Zero(t, alphaAt(img, 11, 31))
		assert.Zero(t, alphaAt(img, 60, 50))
	})
}

func TestOrient(t *testing.T) {
	ccw := polygon{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}
	assert.Less(t, area(ccw), 0.0)
	assert.Greater(t, area(orient(ccw)), 0.0)
	assert.Equal(t, ccw[0], reverse(reverse(ccw))[0])
}

package watermark

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS colour: #rgb, #rrggbb, #rrggbbaa, rgb(), rgba()
// or a CSS colour name.
func ParseColor(s string) (color.NRGBA, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	if str == "" {
		return color.NRGBA{}, errors.New("color must not be empty")
	}
	if str == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[str]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if strings.HasPrefix(str, "rgb") {
		return parseRGBFunc(str)
	}
	return parseHexColor(str)
}

// colorOr parses s, falling back to def for invalid input.
func colorOr(s string, def color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

func parseHexColor(s string) (color.NRGBA, error) {
	str := strings.TrimPrefix(s, "#")
	switch len(str) {
	case 3:
		str = fmt.Sprintf("%c%c%c%c%c%c", str[0], str[0], str[1], str[1], str[2], str[2])
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
	}

	var r, g, b, a uint8
	hexRGB := str
	if len(str) == 8 {
		hexRGB = str[:6]
	}
	_, err := fmt.Sscanf(hexRGB, "%02x%02x%02x", &r, &g, &b)
	if err != nil {
		return color.NRGBA{}, err
	}
	if len(str) == 8 {
		_, err = fmt.Sscanf(str[6:], "%02x", &a)
		if err != nil {
			return color.NRGBA{}, err
		}
	} else {
		a = 255
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

func parseRGBFunc(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("invalid channel: %q", parts[i])
		}
		ch[i] = uint8(v + 0.5)
	}
	a := 1.0
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || v < 0 || v > 1 {
			return color.NRGBA{}, fmt.Errorf("invalid alpha: %q", parts[3])
		}
		a = v
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(a*255 + 0.5)}, nil
}

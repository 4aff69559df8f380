package content

import (
	"bufio"
	"io"
	"strconv"
)

const (
	DefaultGradientWidth  = 80
	DefaultGradientHeight = 24
	maxGradientSide       = 256
)

// WriteGradient draws a w x h block of truecolor background cells. Hue sweeps
// across columns and brightness falls off down the rows.
// Each line ends with an attribute reset. Non-positive sizes use the defaults.
func WriteGradient(dst io.Writer, w, h int) error {
	if w <= 0 {
		w = DefaultGradientWidth
	}
	if h <= 0 {
		h = DefaultGradientHeight
	}
	w, h = clampSide(w), clampSide(h)

	bw := bufio.NewWriter(dst)
	buf := make([]byte, 0, 32)
	for y := 0; y < h; y++ {
		bright := 255 - y*maxGradientSide/h
		for x := 0; x < w; x++ {
			r, g, b := hue(x * maxGradientSide / w)
			buf = buf[:0]
			buf = append(buf, "\x1b[48;2;"...)
			buf = strconv.AppendInt(buf, int64(r*bright/255), 10)
			buf = append(buf, ';')
			buf = strconv.AppendInt(buf, int64(g*bright/255), 10)
			buf = append(buf, ';')
			buf = strconv.AppendInt(buf, int64(b*bright/255), 10)
			buf = append(buf, "m "...)
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\x1b[0m\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// hue maps x in [0,256) onto a three-segment RGB ramp.
func hue(x int) (r, g, b int) {
	switch {
	case x < 85:
		return 255 - x*3, x * 3, 0
	case x < 170:
		return 0, 255 - (x-85)*3, (x - 85) * 3
	default:
		return (x - 170) * 3, 0, 255 - (x-170)*3
	}
}

// ParseSide parses a gradient dimension query value clamped to [1,256],
// returning def when raw is empty or not a number.
func ParseSide(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return clampSide(n)
}

func clampSide(n int) int {
	switch {
	case n < 1:
		return 1
	case n > maxGradientSide:
		return maxGradientSide
	default:
		return n
	}
}

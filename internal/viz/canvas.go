package viz

import (
	"math"
	"strings"

	"github.com/san-kum/polyroot/internal/newton"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille grid addressed either in sub-pixels (Width*2 by
// Height*4) or in world coordinates through SetWindow.
type Canvas struct {
	Width, Height int
	grid          [][]rune

	xMin, xMax, yMin, yMax float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		grid:   make([][]rune, h),
	}
	c.SetWindow(0, 1, 0, 1)
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = blank
		}
	}
}

// SetWindow maps world coordinates onto the canvas. Degenerate ranges are
// widened to 1.
func (c *Canvas) SetWindow(xMin, xMax, yMin, yMax float64) {
	if xMax <= xMin {
		xMax = xMin + 1
	}
	if yMax <= yMin {
		yMax = yMin + 1
	}
	c.xMin, c.xMax, c.yMin, c.yMax = xMin, xMax, yMin, yMax
}

// Set turns on the sub-pixel (x, y); out of range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// DrawLine draws between two sub-pixels using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) toPixel(x, y float64) (int, int, bool) {
	if !finite(x) || !finite(y) {
		return 0, 0, false
	}
	pw, ph := float64(c.Width*2-1), float64(c.Height*4-1)
	px := (x - c.xMin) / (c.xMax - c.xMin) * pw
	py := (c.yMax - y) / (c.yMax - c.yMin) * ph
	if px < -1 || px > pw+1 || py < -1 || py > ph+1 {
		return 0, 0, false
	}
	return int(math.Round(px)), int(math.Round(py)), true
}

func (c *Canvas) Point(x, y float64) {
	if px, py, ok := c.toPixel(x, y); ok {
		c.Set(px, py)
	}
}

// Line draws a world-space segment by sampling, so endpoints far outside
// the window stay cheap.
func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	n := 2 * (c.Width*2 + c.Height*4)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		c.Point(x0+t*(x1-x0), y0+t*(y1-y0))
	}
}

// Curve samples f once per sub-pixel column.
func (c *Canvas) Curve(f func(float64) float64) {
	cols := c.Width * 2
	for i := 0; i < cols; i++ {
		x := c.xMin + (c.xMax-c.xMin)*float64(i)/float64(cols-1)
		c.Point(x, f(x))
	}
}

// Axis draws y = 0 when it is inside the window.
func (c *Canvas) Axis() {
	if _, py, ok := c.toPixel(c.xMin, 0); ok {
		c.DrawLine(0, py, c.Width*2-1, py)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// TangentPicture draws f around x together with the tangent at x down to
// the axis crossing the next Newton update would move to.
func TangentPicture(f newton.Function, x float64, w, h int) string {
	c := NewCanvas(w, h)

	fx, dfx := f.Value(x), f.Slope(x)
	next := x
	if dfx != 0 {
		next = x - fx/dfx
	}
	if !finite(x) || !finite(next) {
		return c.String()
	}

	lo, hi := math.Min(x, next), math.Max(x, next)
	pad := 0.5*(hi-lo) + 0.5
	lo, hi = lo-pad, hi+pad

	yLo, yHi := 0.0, 0.0
	for i := 0; i <= 64; i++ {
		v := f.Value(lo + (hi-lo)*float64(i)/64)
		if finite(v) {
			yLo, yHi = math.Min(yLo, v), math.Max(yHi, v)
		}
	}
	ypad := 0.05 * (yHi - yLo)
	c.SetWindow(lo, hi, yLo-ypad, yHi+ypad)

	c.Axis()
	c.Curve(f.Value)
	if dfx != 0 {
		c.Line(x, fx, next, 0)
	}
	return c.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

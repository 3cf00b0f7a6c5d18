package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot grid of Width x Height cells, i.e. (2·Width) x
// (4·Height) dots. Each cell remembers the color of the last path drawn in it.
type Canvas struct {
	Width, Height int
	grid          [][]rune
	colors        [][]string
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([][]rune, h), colors: make([][]string, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		c.colors[i] = make([]string, w)
		for j := range c.grid[i] {
			c.grid[i][j] = brailleBlank
		}
	}
	return c
}

// Set lights the dot at (x, y), with y growing downwards.
func (c *Canvas) Set(x, y int, color string) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
	c.colors[row][col] = color
}

func (c *Canvas) Cell(col, row int) rune { return c.grid[row][col] }

func (c *Canvas) String() string {
	var sb strings.Builder
	for row := range c.grid {
		for col, r := range c.grid[row] {
			if color := c.colors[row][col]; color != "" && r != brailleBlank {
				sb.WriteString(lipgloss.NewStyle().Foreground(TermColor(color)).Render(string(r)))
				continue
			}
			sb.WriteRune(r)
		}
		if row < len(c.grid)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// PlotPaths draws the x-y projection of paths with equal axis scale.
func PlotPaths(paths []Path, w, h int) *Canvas {
	c := NewCanvas(w, h)
	b := emptyBounds()
	for _, p := range paths {
		for _, pt := range p.Points {
			b.add(pt.X, pt.Y)
		}
	}
	if math.IsInf(b.minX, 0) {
		return c
	}
	b.pad()

	dotsX, dotsY := float64(2*w-1), float64(4*h-1)
	// terminal cells are about twice as tall as wide; with 2x4 dots per
	// cell one dot step is roughly square
	scale := math.Min(dotsX/(b.maxX-b.minX), dotsY/(b.maxY-b.minY))
	offX := (dotsX - scale*(b.maxX-b.minX)) / 2
	offY := (dotsY - scale*(b.maxY-b.minY)) / 2

	for _, p := range paths {
		for _, pt := range p.Points {
			x := offX + (pt.X-b.minX)*scale
			y := dotsY - offY - (pt.Y-b.minY)*scale
			c.Set(int(math.Round(x)), int(math.Round(y)), p.Color)
		}
	}
	return c
}

package game

import "strings"

const (
	glyphEmpty = '.'
	glyphApple = '@'
	glyphBody  = '='
	glyphTail  = '-'
	glyphHead  = 'o'
)

// Render draws the board row by row. Cells are separated by two spaces and
// each row ends with a newline. Draw order is apple, body, tail, head, so the
// head wins any shared cell. Segments off the grid are skipped.
func (b *Board) Render() string {
	grid := make([]byte, b.area())
	for i := range grid {
		grid[i] = glyphEmpty
	}

	put := func(p Point, g byte) {
		if !b.InBounds(p) {
			return
		}
		grid[int(p.Row)*int(b.cols)+int(p.Col)] = g
	}

	put(b.apple, glyphApple)
	for _, p := range b.body {
		put(p, glyphBody)
	}
	put(b.Tail(), glyphTail)
	put(b.Head(), glyphHead)

	var sb strings.Builder
	sb.Grow(len(grid) * 3)
	for r := 0; r < int(b.rows); r++ {
		row := grid[r*int(b.cols) : (r+1)*int(b.cols)]
		for c, g := range row {
			if c > 0 {
				sb.WriteString("  ")
			}
			sb.WriteByte(g)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

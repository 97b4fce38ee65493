package model

import (
	"fmt"
)

const boardSize = 8

// Coordinate is a square on the board. Rank 1 is row 0 and file a is col 0,
// so "e4" is row 3, col 4.
type Coordinate struct {
	row int
	col int
}

// NewCoordinate returns the square at row, col or ErrOutOfBounds.
func NewCoordinate(row, col int) (Coordinate, error) {
	if !inBounds(row, col) {
		return Coordinate{}, fmt.Errorf("%w: row=%d col=%d", ErrOutOfBounds, row, col)
	}
	return Coordinate{row: row, col: col}, nil
}

// MustCoordinate is NewCoordinate for constants known to be valid.
func MustCoordinate(row, col int) Coordinate {
	c, err := NewCoordinate(row, col)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseSquare parses an algebraic square name such as "e4".
func ParseSquare(s string) (Coordinate, error) {
	if len(s) != 2 {
		return Coordinate{}, fmt.Errorf("%w: square %q", ErrOutOfBounds, s)
	}
	return NewCoordinate(int(s[1])-'1', int(s[0])-'a')
}

// MustSquare is ParseSquare for literals.
func MustSquare(s string) Coordinate {
	c, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return c
}

func coordFromIndex(idx int) Coordinate {
	return Coordinate{row: idx / boardSize, col: idx % boardSize}
}

func inBounds(row, col int) bool {
	return row >= 0 && row < boardSize && col >= 0 && col < boardSize
}

func (c Coordinate) Row() int { return c.row }
func (c Coordinate) Col() int { return c.col }

// Index is the position of the square in the row-major 64 square layout.
func (c Coordinate) Index() int {
	return c.row*boardSize + c.col
}

// File returns the file letter, 'a' through 'h'.
func (c Coordinate) File() byte {
	return byte('a' + c.col)
}

// Rank returns the rank digit, '1' through '8'.
func (c Coordinate) Rank() byte {
	return byte('1' + c.row)
}

func (c Coordinate) String() string {
	return string([]byte{c.File(), c.Rank()})
}

// offset returns the square dr rows and dc cols away, if it is on the board.
func (c Coordinate) offset(dr, dc int) (Coordinate, bool) {
	r, cl := c.row+dr, c.col+dc
	if !inBounds(r, cl) {
		return Coordinate{}, false
	}
	return Coordinate{row: r, col: cl}, true
}

func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Coordinate) UnmarshalText(text []byte) error {
	parsed, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

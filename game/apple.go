// apple.go implements apple spawning.

package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Rand is the random source used for apple placement.
// *math/rand.Rand and *golang.org/x/exp/rand.Rand both satisfy it.
type Rand interface {
	Intn(n int) int
}

// area is the cell count, computed in int so large grids do not wrap.
func (b *Board) area() int {
	return int(b.rows) * int(b.cols)
}

// SpawnablePositions lists every cell not covered by the snake, in row-major order.
func (b *Board) SpawnablePositions() []Point {
	occupied := make(map[Point]struct{}, len(b.body))
	for _, p := range b.body {
		occupied[p] = struct{}{}
	}

	free := make([]Point, 0, max(0, b.area()-len(occupied)))
	for r := int32(0); r < b.rows; r++ {
		for c := int32(0); c < b.cols; c++ {
			p := Point{Row: r, Col: c}
			if _, ok := occupied[p]; ok {
				continue
			}
			free = append(free, p)
		}
	}
	return free
}

// SpawnApple moves the apple to a uniformly chosen free cell.
// If rng is nil a generator seeded from the board state is used, so the same
// position always yields the same apple.
// Returns ErrBoardFull when the snake covers the whole grid; the apple is left unchanged.
func (b *Board) SpawnApple(rng Rand) error {
	free := b.SpawnablePositions()
	if len(free) == 0 {
		return fmt.Errorf("%w: snake covers all %d cells", ErrBoardFull, b.area())
	}
	if rng == nil {
		seed := int64(b.Hash())
		if seed == 0 {
			seed = 1
		}
		rng = rand.New(rand.NewSource(seed))
	}
	b.apple = free[rng.Intn(len(free))]
	return nil
}

// Hash is an FNV-64a digest of the body and apple. Boards that are Equal hash equal.
func (b *Board) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte

	put := func(p Point) {
		binary.LittleEndian.PutUint64(buf[:], (uint64(uint32(p.Row))<<32)|uint64(uint32(p.Col)))
		_, _ = h.Write(buf[:])
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(len(b.body)))
	_, _ = h.Write(buf[:])
	for _, p := range b.body {
		put(p)
	}
	put(b.apple)
	return h.Sum64()
}

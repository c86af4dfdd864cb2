package game

import (
	"errors"
	"slices"
	"testing"
)

func TestLegalMoves_ExcludesOnlyReversal(t *testing.T) {
	for _, cur := range Directions {
		b := mustBoard(t, 10, 10, WithDirection(cur), WithApple(Point{0, 0}))
		got := b.LegalMoves()
		if len(got) != 3 {
			t.Fatalf("dir=%v legal=%v want 3 moves", cur, got)
		}
		if slices.Contains(got, cur.Opposite()) {
			t.Fatalf("dir=%v legal=%v contains reversal", cur, got)
		}
		for i := 1; i < len(got); i++ {
			if got[i-1] >= got[i] {
				t.Fatalf("legal moves out of order: %v", got)
			}
		}
	}
}

func TestApplyMove_DefaultBoardUp(t *testing.T) {
	before := mustBoard(t, 10, 10, WithApple(Point{0, 0}))

	legal := before.LegalMoves()
	if want := []Direction{Up, Down, Right}; !slices.Equal(legal, want) {
		t.Fatalf("legal=%v want=%v", legal, want)
	}

	after := before.Clone()
	if err := after.ApplyMove(Up); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	logMove(t, "default board, move up", before, Up, after)

	want := []Point{{3, 2}, {4, 2}}
	if !slices.Equal(after.Body(), want) {
		t.Fatalf("body=%v want=%v", after.Body(), want)
	}
	if after.Tail() != (Point{4, 2}) {
		t.Fatalf("tail=%v", after.Tail())
	}
	if after.Direction() != Up || after.MoveCount() != 1 {
		t.Fatalf("dir=%v moves=%d", after.Direction(), after.MoveCount())
	}
}

func TestApplyMove_TranslatesWholeBody(t *testing.T) {
	body := []Point{{5, 5}, {5, 4}, {5, 3}, {4, 3}, {3, 3}}
	for _, d := range []Direction{Up, Down, Right} {
		b := mustBoard(t, 10, 10, WithBody(body), WithApple(Point{0, 0}))
		prevHead, prevLen := b.Head(), b.Len()
		if err := b.ApplyMove(d); err != nil {
			t.Fatalf("ApplyMove(%v): %v", d, err)
		}
		if b.Head() != prevHead.Add(d) {
			t.Fatalf("move %v head=%v want=%v", d, b.Head(), prevHead.Add(d))
		}
		if b.Len() != prevLen {
			t.Fatalf("move %v len=%d want=%d", d, b.Len(), prevLen)
		}
		if !slices.Equal(b.Body()[1:], body[:len(body)-1]) {
			t.Fatalf("move %v body=%v", d, b.Body())
		}
	}
}

func TestApplyMove_RejectsUnknownDirection(t *testing.T) {
	b := mustBoard(t, 10, 10, WithApple(Point{0, 0}))
	if err := b.ApplyMove(Direction(7)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err=%v want ErrIllegalMove", err)
	}
	if b.MoveCount() != 0 || b.Head() != (Point{4, 2}) {
		t.Fatalf("board mutated by rejected move")
	}
}

func TestApplyMove_TrustsReversal(t *testing.T) {
	b := mustBoard(t, 10, 10, WithApple(Point{0, 0}))
	if err := b.ApplyMove(Left); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if b.Head() != (Point{4, 1}) {
		t.Fatalf("head=%v", b.Head())
	}
}

func TestApplyLegalMove_RejectsReversal(t *testing.T) {
	b := mustBoard(t, 10, 10, WithApple(Point{0, 0}))
	if err := b.ApplyLegalMove(Left); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err=%v want ErrIllegalMove", err)
	}
	if b.MoveCount() != 0 {
		t.Fatalf("rejected move was counted")
	}
	if err := b.ApplyLegalMove(Down); err != nil {
		t.Fatalf("ApplyLegalMove(down): %v", err)
	}
}

func TestEatAndGrow(t *testing.T) {
	before := mustBoard(t, 10, 10, WithApple(Point{4, 3}))
	b := before.Clone()
	if b.Eaten() {
		t.Fatalf("eaten before moving")
	}
	if err := b.ApplyMove(Right); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if !b.Eaten() {
		t.Fatalf("head=%v apple=%v: expected eaten", b.Head(), b.Apple())
	}

	b.Grow()
	logMove(t, "eat and grow", before, Right, b)

	if b.Len() != 3 || b.Score() != 1 {
		t.Fatalf("len=%d score=%d want 3,1", b.Len(), b.Score())
	}
	if want := []Point{{4, 3}, {4, 3}, {4, 2}}; !slices.Equal(b.Body(), want) {
		t.Fatalf("body=%v want=%v", b.Body(), want)
	}
	if b.SelfCollision() {
		t.Fatalf("stacked growth segment must not count as a collision")
	}

	if err := b.SpawnApple(nil); err != nil {
		t.Fatalf("SpawnApple: %v", err)
	}
	if b.Occupied(b.Apple()) {
		t.Fatalf("apple %v respawned on snake", b.Apple())
	}

	if err := b.ApplyMove(Right); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if want := []Point{{4, 4}, {4, 3}, {4, 3}}; !slices.Equal(b.Body(), want) {
		t.Fatalf("body=%v want=%v", b.Body(), want)
	}
	if err := b.ApplyMove(Right); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if want := []Point{{4, 5}, {4, 4}, {4, 3}}; !slices.Equal(b.Body(), want) {
		t.Fatalf("body=%v want=%v", b.Body(), want)
	}
}

func TestWallCollision(t *testing.T) {
	b := mustBoard(t, 10, 10, WithBody([]Point{{0, 0}, {0, 1}}), WithDirection(Left), WithApple(Point{5, 5}))
	if b.WallCollision() {
		t.Fatalf("collision before moving")
	}
	if err := b.ApplyMove(Up); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if b.Head() != (Point{-1, 0}) {
		t.Fatalf("head=%v", b.Head())
	}
	if !b.WallCollision() {
		t.Fatalf("expected wall collision")
	}
	if b.Outcome() != OutcomeWallCollision {
		t.Fatalf("outcome=%v", b.Outcome())
	}
	if !b.WallCollision() || b.Outcome() != OutcomeWallCollision {
		t.Fatalf("wall collision must be idempotent")
	}
	if b.SelfCollision() {
		t.Fatalf("unexpected self collision")
	}
}

func TestWallCollision_EveryEdge(t *testing.T) {
	tests := []struct {
		body []Point
		move Direction
	}{
		{[]Point{{0, 2}, {1, 2}}, Up},
		{[]Point{{2, 2}, {1, 2}}, Down},
		{[]Point{{1, 0}, {1, 1}}, Left},
		{[]Point{{1, 3}, {1, 2}}, Right},
	}
	for _, tc := range tests {
		b := mustBoard(t, 3, 4, WithBody(tc.body), WithApple(Point{2, 0}))
		if err := b.ApplyMove(tc.move); err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
		if !b.WallCollision() {
			t.Fatalf("body=%v move=%v head=%v: expected wall collision", tc.body, tc.move, b.Head())
		}
	}
}

func TestSelfCollision_Loop(t *testing.T) {
	before := mustBoard(t, 10, 10,
		WithBody([]Point{{5, 5}, {5, 4}, {4, 4}, {4, 5}, {3, 5}}),
		WithApple(Point{0, 0}),
	)
	b := before.Clone()
	// (5,5) -> (4,5) lands on the old segment 3, which is still present after the tail drops.
	if err := b.ApplyMove(Up); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	logMove(t, "closed loop", before, Up, b)

	if !b.SelfCollision() {
		t.Fatalf("body=%v: expected self collision", b.Body())
	}
	if b.Outcome() != OutcomeSelfCollision {
		t.Fatalf("outcome=%v", b.Outcome())
	}
}

func TestSelfCollision_ReversalOntoNeck(t *testing.T) {
	b := mustBoard(t, 10, 10,
		WithBody([]Point{{5, 5}, {5, 4}, {4, 4}, {4, 5}}),
		WithApple(Point{0, 0}),
	)
	// Left reverses onto (5,4), which is then held at index 2.
	if err := b.ApplyMove(Left); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if want := []Point{{5, 4}, {5, 5}, {5, 4}, {4, 4}}; !slices.Equal(b.Body(), want) {
		t.Fatalf("body=%v want=%v", b.Body(), want)
	}
	if !b.SelfCollision() {
		t.Fatalf("expected self collision with head at (5,4)")
	}
	if !b.SelfCollision() || b.Outcome() != OutcomeSelfCollision {
		t.Fatalf("self collision must be idempotent")
	}
}

func TestSelfCollision_ShortSnakeNever(t *testing.T) {
	b := mustBoard(t, 10, 10, WithApple(Point{0, 0}))
	for _, d := range []Direction{Up, Left, Down} {
		if err := b.ApplyMove(d); err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
		if b.SelfCollision() {
			t.Fatalf("two-segment snake reported self collision: %v", b.Body())
		}
	}
	if b.Outcome() != OutcomeNone {
		t.Fatalf("outcome=%v", b.Outcome())
	}
}

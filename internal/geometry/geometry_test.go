package geometry

import "testing"

func TestRowCol_RoundTrip(t *testing.T) {
	for slot := 0; slot < 54; slot++ {
		if got := Slot(Row(slot), Col(slot)); got != slot {
			t.Errorf("Slot(Row(%d), Col(%d)) = %d, want %d", slot, slot, got, slot)
		}
	}
}

func TestNeighbor_DownWithinBounds(t *testing.T) {
	next, ok := Neighbor(4, Down, 2)
	if !ok || next != 13 {
		t.Errorf("Neighbor(4, Down, 2) = (%d, %v), want (13, true)", next, ok)
	}
}

func TestNeighbor_UpOutOfBounds(t *testing.T) {
	_, ok := Neighbor(4, Up, 2)
	if ok {
		t.Errorf("Neighbor(4, Up, 2) should be out of bounds")
	}
}

func TestNeighbor_LeftEdgeOutOfBounds(t *testing.T) {
	_, ok := Neighbor(0, Left, 2)
	if ok {
		t.Errorf("Neighbor(0, Left, 2) should be out of bounds")
	}
}

func TestRoundDownUpRow(t *testing.T) {
	if got := RoundDownToRow(13); got != 9 {
		t.Errorf("RoundDownToRow(13) = %d, want 9", got)
	}
	if got := RoundUpToRowMax(13); got != 17 {
		t.Errorf("RoundUpToRowMax(13) = %d, want 17", got)
	}
}

func TestInferMaxRow(t *testing.T) {
	if got := InferMaxRow([]int{0, 13, 26}); got != 2 {
		t.Errorf("InferMaxRow = %d, want 2", got)
	}
}

package glimmer

import "testing"

func TestPaletteAssignsStableIDs(t *testing.T) {
	s, _ := testSurface(t, 4, 4)
	red := RGB{R: 255}
	green := RGB{G: 255}

	id1 := s.ColorID(red)
	id2 := s.ColorID(green)
	if id1 == Empty || id2 == Empty {
		t.Fatal("colour ids must not collide with the Empty sentinel")
	}
	if id1 == id2 {
		t.Fatal("distinct colours got the same id")
	}
	if again := s.ColorID(red); again != id1 {
		t.Errorf("re-registering red gave id %d, want %d", again, id1)
	}
	if got := s.Color(id1); got != red {
		t.Errorf("Color(%d) = %v, want %v", id1, got, red)
	}
}

func TestPaletteBlackIsEmpty(t *testing.T) {
	s, _ := testSurface(t, 4, 4)
	if id := s.ColorID(Black); id != Empty {
		t.Errorf("ColorID(Black) = %d, want Empty", id)
	}
	if c := s.Color(Empty); c != Black {
		t.Errorf("Color(Empty) = %v, want Black", c)
	}
}

func TestPaletteNearestMatchWhenFull(t *testing.T) {
	s, _ := testSurface(t, 4, 4)

	// Fill all 255 slots with a red ramp.
	for r := 1; r <= 255; r++ {
		s.ColorID(RGB{R: uint8(r)})
	}

	// A colour far from the ramp snaps to the closest entry.
	if id := s.ColorID(RGB{G: 255}); id != s.ColorID(RGB{R: 1}) {
		t.Errorf("full palette mapped pure green to id %d, want the darkest red", id)
	}
	if id := s.ColorID(RGB{R: 200, G: 10}); id != s.ColorID(RGB{R: 200}) {
		t.Errorf("full palette mapped near-red to id %d, want the exact red's id", id)
	}
}

func TestPaletteUnknownIDIsBlack(t *testing.T) {
	s, _ := testSurface(t, 4, 4)
	s.ColorID(RGB{R: 10})
	if c := s.Color(200); c != Black {
		t.Errorf("Color(unregistered) = %v, want Black", c)
	}
}

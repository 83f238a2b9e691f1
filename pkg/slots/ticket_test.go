package slots

import "testing"

func TestTicket_CompleteCurrent(t *testing.T) {
	s := NewStore(2)
	tk, ok := s.Begin(1)
	if !ok {
		t.Fatal("Begin(1) failed")
	}
	if !s.Complete(tk, testImage()) {
		t.Fatal("Complete() of current ticket = false")
	}
	if st, _ := s.State(1); !st.Filled() {
		t.Error("slot 1 should be filled")
	}

	// A ticket is single-use: the assignment itself advances the generation.
	if s.Current(tk) {
		t.Error("ticket still current after Complete")
	}
}

func TestTicket_StaleAfterClear(t *testing.T) {
	s := NewStore(1)
	tk, _ := s.Begin(0)
	s.ClearImage(0)

	if s.Complete(tk, testImage()) {
		t.Error("Complete() after clear = true, want false")
	}
	if s.CountFilled() != 0 {
		t.Error("stale completion filled the slot")
	}
}

func TestTicket_StaleAfterNewerBegin(t *testing.T) {
	s := NewStore(1)
	older, _ := s.Begin(0)
	newer, _ := s.Begin(0)

	newImg := testImage()
	if !s.Complete(newer, newImg) {
		t.Fatal("Complete(newer) = false")
	}
	if s.Complete(older, testImage()) {
		t.Error("Complete(older) = true, want false")
	}
	if st, _ := s.State(0); st.Image != newImg {
		t.Error("older completion replaced the newer image")
	}
}

func TestTicket_StaleAfterReset(t *testing.T) {
	s := NewStore(4)
	tk, _ := s.Begin(2)
	s.Reset(4)

	if s.Complete(tk, testImage()) {
		t.Error("Complete() after Reset = true, want false")
	}
}

func TestTicket_StaleAfterDirectAssign(t *testing.T) {
	s := NewStore(1)
	tk, _ := s.Begin(0)
	s.AssignImage(0, testImage())

	if s.Current(tk) {
		t.Error("ticket current after direct assignment")
	}
}

func TestTicket_Fail(t *testing.T) {
	s := NewStore(1)
	s.AssignImage(0, testImage())

	tk, _ := s.Begin(0)
	if !s.Fail(tk) {
		t.Fatal("Fail(current) = false")
	}
	if s.CountFilled() != 0 {
		t.Error("Fail should clear the slot")
	}

	s.AssignImage(0, testImage())
	if s.Fail(tk) {
		t.Error("Fail(stale) = true, want false")
	}
	if s.CountFilled() != 1 {
		t.Error("stale Fail cleared a newer image")
	}
}

func TestBegin_OutOfRange(t *testing.T) {
	s := NewStore(1)
	if _, ok := s.Begin(5); ok {
		t.Error("Begin(5) ok = true, want false")
	}
}

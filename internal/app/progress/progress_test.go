package progress

import "testing"

func TestChanSinkDeliversInOrder(t *testing.T) {
	sink := NewChanSink(4)
	sink.Emit(Event{Percent: 10, Label: "a"})
	sink.Emit(Event{Percent: 20, Label: "b"})
	sink.Close()

	var got []int
	for ev := range sink.Events() {
		got = append(got, ev.Percent)
	}
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Errorf("Unexpected events: %v", got)
	}
}

func TestChanSinkDropsOldestWhenFull(t *testing.T) {
	sink := NewChanSink(2)
	sink.Emit(Event{Percent: 10})
	sink.Emit(Event{Percent: 20})
	sink.Emit(Event{Percent: 30}) // must not block
	sink.Close()

	var got []int
	for ev := range sink.Events() {
		got = append(got, ev.Percent)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 buffered events, got %v", got)
	}
	if got[len(got)-1] != 30 {
		t.Errorf("Newest event lost: %v", got)
	}
}

func TestDiscardNeverPanics(t *testing.T) {
	Discard.Emit(Event{Percent: 100, Label: "done"})
}

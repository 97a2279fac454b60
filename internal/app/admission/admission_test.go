package admission

import (
	"errors"
	"testing"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/attest"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
)

func validResult() attest.Result {
	return attest.Result{
		IsValid:    true,
		ProofBytes: []byte("proof"),
		Public:     attest.PublicInputs{ThresholdMicro: 1_000_000, Nonce: []byte{1, 2, 3}},
	}
}

func TestAdmitValidResult(t *testing.T) {
	store := NewGroupStore()
	admitter := NewAdmitter(store, logger.New())

	m, err := admitter.Admit("user-1", "vip", validResult())
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if m.ThresholdMicro != 1_000_000 {
		t.Errorf("Membership threshold = %d", m.ThresholdMicro)
	}
	if !store.IsMember("vip", "user-1") {
		t.Error("User missing from group after admission")
	}
	if store.IsMember("vip", "user-2") {
		t.Error("Unadmitted user reported as member")
	}
}

func TestAdmitRefusesInvalidResult(t *testing.T) {
	store := NewGroupStore()
	admitter := NewAdmitter(store, logger.New())

	_, err := admitter.Admit("user-1", "vip", attest.Result{IsValid: false})
	if !errors.Is(err, ErrNotAdmissible) {
		t.Fatalf("Expected ErrNotAdmissible, got %v", err)
	}
	if store.IsMember("vip", "user-1") {
		t.Error("Invalid result still produced a membership")
	}

	noProof := validResult()
	noProof.ProofBytes = nil
	if _, err := admitter.Admit("user-1", "vip", noProof); !errors.Is(err, ErrNotAdmissible) {
		t.Errorf("Result without proof bytes must not admit, got %v", err)
	}
}

func TestMembersSortedByUser(t *testing.T) {
	store := NewGroupStore()
	admitter := NewAdmitter(store, logger.New())

	for _, user := range []string{"charlie", "alice", "bob"} {
		if _, err := admitter.Admit(user, "vip", validResult()); err != nil {
			t.Fatalf("Admit(%s) failed: %v", user, err)
		}
	}

	members := store.Members("vip")
	if len(members) != 3 {
		t.Fatalf("Expected 3 members, got %d", len(members))
	}
	want := []string{"alice", "bob", "charlie"}
	for i, m := range members {
		if m.UserID != want[i] {
			t.Errorf("Member %d = %s, want %s", i, m.UserID, want[i])
		}
	}
}

func TestReadmissionOverwrites(t *testing.T) {
	store := NewGroupStore()
	admitter := NewAdmitter(store, logger.New())

	if _, err := admitter.Admit("user-1", "vip", validResult()); err != nil {
		t.Fatalf("First admission failed: %v", err)
	}
	if _, err := admitter.Admit("user-1", "vip", validResult()); err != nil {
		t.Fatalf("Second admission failed: %v", err)
	}
	if got := len(store.Members("vip")); got != 1 {
		t.Errorf("Expected 1 membership after re-admission, got %d", got)
	}
}

func TestSubscribeSeesAdmissions(t *testing.T) {
	store := NewGroupStore()
	admitter := NewAdmitter(store, logger.New())

	changes := store.Subscribe()
	if _, err := admitter.Admit("user-1", "vip", validResult()); err != nil {
		t.Fatalf("Admit failed: %v", err)
	}

	select {
	case change := <-changes:
		if change.Membership.UserID != "user-1" || change.Membership.GroupID != "vip" {
			t.Errorf("Unexpected change: %+v", change)
		}
	default:
		t.Error("No membership change delivered")
	}
}

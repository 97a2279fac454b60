package admission

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/attest"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
)

var ErrNotAdmissible = errors.New("attestation result does not grant admission")

// Membership records one admitted user inside a gated group.
type Membership struct {
	UserID         string
	GroupID        string
	ThresholdMicro uint64
	AdmittedAt     time.Time
}

// MembershipChange is published to subscribers whenever a group gains a
// member.
type MembershipChange struct {
	Membership Membership
}

// GroupStore keeps gated group memberships in memory.
type GroupStore struct {
	mu          sync.RWMutex
	groups      map[string]map[string]Membership
	subscribers []chan MembershipChange
}

func NewGroupStore() *GroupStore {
	return &GroupStore{groups: make(map[string]map[string]Membership)}
}

func (s *GroupStore) add(m Membership) {
	s.mu.Lock()
	group, ok := s.groups[m.GroupID]
	if !ok {
		group = make(map[string]Membership)
		s.groups[m.GroupID] = group
	}
	group[m.UserID] = m
	subscribers := make([]chan MembershipChange, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subscribers {
		select {
		case sub <- MembershipChange{Membership: m}:
		default:
		}
	}
}

func (s *GroupStore) IsMember(groupID, userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.groups[groupID][userID]
	return ok
}

// Members returns the group's memberships sorted by user id.
func (s *GroupStore) Members(groupID string) []Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group := s.groups[groupID]
	members := make([]Membership, 0, len(group))
	for _, m := range group {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members
}

// Subscribe returns a channel that receives future membership changes.
// Slow subscribers miss events instead of blocking admission.
func (s *GroupStore) Subscribe() <-chan MembershipChange {
	ch := make(chan MembershipChange, 16)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

// Admitter turns valid attestation results into group memberships.
type Admitter struct {
	store *GroupStore
	log   *logger.Logger
}

func NewAdmitter(store *GroupStore, log *logger.Logger) *Admitter {
	return &Admitter{store: store, log: log}
}

// Admit adds the user to the group if and only if the result is a finalized
// valid attestation.
func (a *Admitter) Admit(userID, groupID string, result attest.Result) (Membership, error) {
	if !result.IsValid || len(result.ProofBytes) == 0 {
		return Membership{}, ErrNotAdmissible
	}
	m := Membership{
		UserID:         userID,
		GroupID:        groupID,
		ThresholdMicro: result.Public.ThresholdMicro,
		AdmittedAt:     time.Now().UTC(),
	}
	a.store.add(m)
	a.log.Debugf("admitted user %s to group %s", userID, groupID)
	return m, nil
}

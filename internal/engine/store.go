package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewReservation is the set of fields a caller supplies to create a
// reservation; ReservationStore.Add fills in the rest.
type NewReservation struct {
	ServiceID   string
	EmployeeID  string
	EquipmentID string
	Start       time.Time
	End         time.Time
	ScenarioID  string
}

// ReservationUpdate mutates an existing reservation in place.
type ReservationUpdate struct {
	EmployeeID  *string
	EquipmentID *string
	State       *ReservationState
}

// NewBlocking is the set of fields a caller supplies to persist an
// operational blocking.
type NewBlocking struct {
	Scope        ExceptionScope
	Start        time.Time
	End          time.Time
	Reason       string
	EmployeeIDs  []string
	EquipmentIDs []string
	ServiceIDs   []string
}

// ReservationStore is the pluggable persistence boundary for reservations
// and operational blockings. The default implementation is in-process with
// a mutex; a Mongo-backed one (internal/store/mongostore) can replace it
// without touching the availability, reservation, or cascade managers.
type ReservationStore interface {
	ListReservations() []Reservation
	ListInRange(start, end time.Time) []Reservation
	HasConflict(employeeID, equipmentID string, start, end time.Time) bool
	Add(r NewReservation) (Reservation, error)
	Update(id string, u ReservationUpdate) (Reservation, error)
	AddBlocking(b NewBlocking) (OperationalBlocking, error)
	ListBlockingsIntersecting(start, end time.Time) []OperationalBlocking
}

// MemStore is the reference ReservationStore: a single mutex guards both
// lists, grounded on the lock-around-conflict-check-then-append pattern a
// reservation engine needs under concurrent writers.
type MemStore struct {
	mu           sync.Mutex
	reservations []Reservation
	blockings    []OperationalBlocking
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func overlapsRange(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ListReservations returns a snapshot of all reservations.
func (s *MemStore) ListReservations() []Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out
}

// ListInRange returns reservations overlapping [start, end).
func (s *MemStore) ListInRange(start, end time.Time) []Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Reservation
	for _, r := range s.reservations {
		if overlapsRange(r.Start, r.End, start, end) {
			out = append(out, r)
		}
	}
	return out
}

// HasConflict reports whether any existing non-pending reservation
// overlaps the window and matches either the employee or, if given, the
// equipment.
func (s *MemStore) HasConflict(employeeID, equipmentID string, start, end time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasConflictLocked(employeeID, equipmentID, start, end)
}

func (s *MemStore) hasConflictLocked(employeeID, equipmentID string, start, end time.Time) bool {
	for _, r := range s.reservations {
		if r.State == PendingReschedule {
			continue
		}
		if !overlapsRange(r.Start, r.End, start, end) {
			continue
		}
		if employeeID != "" && r.EmployeeID == employeeID {
			return true
		}
		if equipmentID != "" && r.EquipmentID == equipmentID {
			return true
		}
	}
	return false
}

// Add re-checks conflict under the lock and, if clear, appends a new
// CONFIRMED reservation with a monotonic, timestamp-bearing id.
func (s *MemStore) Add(r NewReservation) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasConflictLocked(r.EmployeeID, r.EquipmentID, r.Start, r.End) {
		return Reservation{}, newError(Conflict, "slot already reserved")
	}

	now := time.Now().UTC()
	rec := Reservation{
		ReservationID: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.New().String()),
		ServiceID:     r.ServiceID,
		EmployeeID:    r.EmployeeID,
		EquipmentID:   r.EquipmentID,
		Start:         r.Start,
		End:           r.End,
		CreatedAt:     now,
		State:         Confirmed,
		Version:       1,
		ScenarioID:    r.ScenarioID,
	}
	s.reservations = append(s.reservations, rec)
	return rec, nil
}

// Update mutates employee/equipment/state fields of an existing
// reservation in place.
func (s *MemStore) Update(id string, u ReservationUpdate) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reservations {
		if s.reservations[i].ReservationID != id {
			continue
		}
		if u.EmployeeID != nil {
			s.reservations[i].EmployeeID = *u.EmployeeID
		}
		if u.EquipmentID != nil {
			s.reservations[i].EquipmentID = *u.EquipmentID
		}
		if u.State != nil {
			s.reservations[i].State = *u.State
		}
		s.reservations[i].Version++
		return s.reservations[i], nil
	}
	return Reservation{}, fmt.Errorf("reservation not found: %s", id)
}

// AddBlocking appends an operational blocking atomically under the lock.
func (s *MemStore) AddBlocking(b NewBlocking) (OperationalBlocking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := OperationalBlocking{
		ID:           uuid.New().String(),
		Scope:        b.Scope,
		Start:        b.Start,
		End:          b.End,
		Reason:       b.Reason,
		EmployeeIDs:  b.EmployeeIDs,
		EquipmentIDs: b.EquipmentIDs,
		ServiceIDs:   b.ServiceIDs,
	}
	s.blockings = append(s.blockings, rec)
	return rec, nil
}

// ListBlockingsIntersecting returns persisted blockings overlapping the
// given window, sorted by start for deterministic enumeration.
func (s *MemStore) ListBlockingsIntersecting(start, end time.Time) []OperationalBlocking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []OperationalBlocking
	for _, b := range s.blockings {
		if overlapsRange(b.Start, b.End, start, end) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

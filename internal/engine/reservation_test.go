package engine

import (
	"context"
	"testing"
)

func simpleScenario() *Scenario {
	return &Scenario{
		ID: "simple",
		Services: map[string]Service{
			"SV": {ID: "SV", DurationMin: 30, BufferBeforeMin: 0, BufferAfterMin: 0},
		},
		Employees: []EmployeeSchedule{
			{EmployeeID: "E1", WorkWindow: Interval{Start: 480, End: 1200}},
			{EmployeeID: "E2", WorkWindow: Interval{Start: 480, End: 1200}},
		},
	}
}

func TestCreateReservationSuccess(t *testing.T) {
	e := newTestEngine(simpleScenario())
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:30:00Z")

	r, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "simple", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State != Confirmed {
		t.Fatalf("expected CONFIRMED, got %s", r.State)
	}
	if r.ScenarioID != "simple" {
		t.Fatalf("expected scenario_id to be persisted, got %q", r.ScenarioID)
	}
	if r.Version != 1 {
		t.Fatalf("expected version 1, got %d", r.Version)
	}
}

func TestCreateReservationInvalidRange(t *testing.T) {
	e := newTestEngine(simpleScenario())
	start := mustUTC("2025-11-06T08:00:00Z")
	_, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "simple", Start: start, End: start,
	})
	engErr, ok := err.(*Error)
	if !ok || engErr.Kind != InvalidRange {
		t.Fatalf("expected InvalidRange, got %v", err)
	}
}

func TestCreateReservationInvalidSlotLength(t *testing.T) {
	e := newTestEngine(simpleScenario())
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:10:00Z") // service total_slot is 30 minutes
	_, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "simple", Start: start, End: end,
	})
	engErr, ok := err.(*Error)
	if !ok || engErr.Kind != InvalidSlotLength {
		t.Fatalf("expected InvalidSlotLength, got %v", err)
	}
}

func TestCreateReservationServiceNotFound(t *testing.T) {
	e := newTestEngine(simpleScenario())
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:30:00Z")
	_, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "NOPE", EmployeeID: "E1", ScenarioID: "simple", Start: start, End: end,
	})
	engErr, ok := err.(*Error)
	if !ok || engErr.Kind != ServiceNotFound {
		t.Fatalf("expected ServiceNotFound, got %v", err)
	}
}

// Double-book: a second reservation for the exact same employee/slot must
// be rejected with Conflict.
func TestCreateReservationConflict(t *testing.T) {
	e := newTestEngine(simpleScenario())
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:30:00Z")

	if _, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "simple", Start: start, End: end,
	}); err != nil {
		t.Fatalf("first reservation should succeed: %v", err)
	}

	_, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "simple", Start: start, End: end,
	})
	engErr, ok := err.(*Error)
	if !ok || engErr.Kind != Conflict {
		t.Fatalf("expected Conflict, got %v", err)
	}
}

// Round-trip law: after a reservation is created, the same availability
// search on the same window no longer offers that employee's slot.
func TestAvailabilityReflectsCreatedReservation(t *testing.T) {
	e := newTestEngine(simpleScenario())
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:30:00Z")

	if _, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "simple", Start: start, End: end,
	}); err != nil {
		t.Fatalf("reservation should succeed: %v", err)
	}

	cands, err := e.Search(context.Background(), SearchRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "simple",
		Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range cands {
		if c.Start.Equal(start) && c.End.Equal(end) {
			t.Fatalf("taken slot %v-%v should no longer be offered", start, end)
		}
	}
}

// Six concurrent create requests for the identical slot: exactly one must
// succeed, the rest must fail with Conflict.
func TestConcurrentCreateExactlyOneWins(t *testing.T) {
	e := newTestEngine(simpleScenario())
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:30:00Z")

	const n = 6
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := e.CreateReservation(context.Background(), CreateReservationRequest{
				ServiceID: "SV", EmployeeID: "E1", ScenarioID: "simple", Start: start, End: end,
			})
			results <- err
		}()
	}

	successes, conflicts := 0, 0
	for i := 0; i < n; i++ {
		err := <-results
		if err == nil {
			successes++
			continue
		}
		if engErr, ok := err.(*Error); ok && engErr.Kind == Conflict {
			conflicts++
			continue
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if successes != 1 {
		t.Fatalf("expected exactly 1 success, got %d", successes)
	}
	if conflicts != n-1 {
		t.Fatalf("expected %d conflicts, got %d", n-1, conflicts)
	}
}

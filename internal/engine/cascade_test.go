package engine

import (
	"context"
	"testing"
)

func cascadeScenario() *Scenario {
	return &Scenario{
		ID: "cascade",
		Services: map[string]Service{
			"SV": {ID: "SV", DurationMin: 30, BufferBeforeMin: 0, BufferAfterMin: 0},
		},
		Employees: []EmployeeSchedule{
			{EmployeeID: "E1", WorkWindow: Interval{Start: 480, End: 1200}},
			{EmployeeID: "E2", WorkWindow: Interval{Start: 480, End: 1200}},
		},
	}
}

// Employee-scope blocking: a reservation held by the blocked employee must
// be reassigned to another compatible employee, landing in REASSIGNED.
func TestCascadeEmployeeScopeReassigns(t *testing.T) {
	e := newTestEngine(cascadeScenario())
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:30:00Z")

	r, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "cascade", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("reservation setup failed: %v", err)
	}

	result, err := e.CreateBlocking(context.Background(), CreateBlockingRequest{
		Scope: EmployeeScope{EmployeeIDs: []string{"E1"}},
		Start: start, End: end, ScenarioID: "cascade",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Processed) != 1 {
		t.Fatalf("expected exactly one processed reservation, got %d", len(result.Processed))
	}
	outcome := result.Processed[0]
	if outcome.ReservationID != r.ReservationID {
		t.Fatalf("processed wrong reservation: %s", outcome.ReservationID)
	}
	if outcome.State != Reassigned {
		t.Fatalf("expected REASSIGNED, got %s", outcome.State)
	}
	if outcome.EmployeeID != "E2" {
		t.Fatalf("expected reassignment to E2, got %s", outcome.EmployeeID)
	}
}

// Business-scope blocking always marks affected reservations
// PENDING_RESCHEDULE, never attempting reassignment, even when multiple
// reservations fall inside the blocked window.
func TestCascadeBusinessScopeMarksPendingForAll(t *testing.T) {
	e := newTestEngine(cascadeScenario())
	start1 := mustUTC("2025-11-06T08:00:00Z")
	end1 := mustUTC("2025-11-06T08:30:00Z")
	start2 := mustUTC("2025-11-06T09:00:00Z")
	end2 := mustUTC("2025-11-06T09:30:00Z")

	if _, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "cascade", Start: start1, End: end1,
	}); err != nil {
		t.Fatalf("reservation 1 setup failed: %v", err)
	}
	if _, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E2", ScenarioID: "cascade", Start: start2, End: end2,
	}); err != nil {
		t.Fatalf("reservation 2 setup failed: %v", err)
	}

	result, err := e.CreateBlocking(context.Background(), CreateBlockingRequest{
		Scope: BusinessScope{},
		Start: mustUTC("2025-11-06T07:00:00Z"), End: mustUTC("2025-11-06T11:00:00Z"),
		ScenarioID: "cascade",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Processed) != 2 {
		t.Fatalf("expected both reservations processed, got %d", len(result.Processed))
	}
	for _, o := range result.Processed {
		if o.State != PendingReschedule {
			t.Fatalf("expected PENDING_RESCHEDULE under business-scope blocking, got %s", o.State)
		}
	}
}

// Equipment-scope blocking clears the blocked equipment on reassignment
// when the new candidate no longer uses it.
func TestCascadeEquipmentScopeClearsEquipment(t *testing.T) {
	s := &Scenario{
		ID: "eq-cascade",
		Services: map[string]Service{
			"S2": {
				ID: "S2", DurationMin: 30, BufferBeforeMin: 0, BufferAfterMin: 0,
				CompatibleEquipment: []string{"EQ1", "EQ2"},
			},
		},
		Employees: []EmployeeSchedule{
			{EmployeeID: "E1", WorkWindow: Interval{Start: 480, End: 1200}, AssignedEquipment: []string{"EQ1"}},
			{EmployeeID: "E2", WorkWindow: Interval{Start: 480, End: 1200}, AssignedEquipment: []string{"EQ2"}},
		},
		Equipment: []Equipment{{EquipmentID: "EQ1"}, {EquipmentID: "EQ2"}},
	}
	e := newTestEngine(s)
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:30:00Z")

	r, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "S2", EmployeeID: "E1", EquipmentID: "EQ1", ScenarioID: "eq-cascade", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("reservation setup failed: %v", err)
	}

	result, err := e.CreateBlocking(context.Background(), CreateBlockingRequest{
		Scope: EquipmentScope{EquipmentIDs: []string{"EQ1"}},
		Start: start, End: end, ScenarioID: "eq-cascade",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Processed) != 1 {
		t.Fatalf("expected one processed reservation, got %d", len(result.Processed))
	}
	outcome := result.Processed[0]
	if outcome.ReservationID != r.ReservationID {
		t.Fatalf("processed wrong reservation")
	}
	if outcome.State != Reassigned {
		t.Fatalf("expected REASSIGNED, got %s", outcome.State)
	}
	if outcome.EquipmentID != "EQ2" {
		t.Fatalf("expected reassignment to EQ2, got %s", outcome.EquipmentID)
	}
}

// When no other employee can cover the slot, the reservation falls through
// to PENDING_RESCHEDULE instead of erroring.
func TestCascadeNoAlternativeMarksPending(t *testing.T) {
	s := &Scenario{
		ID: "solo",
		Services: map[string]Service{
			"SV": {ID: "SV", DurationMin: 30, BufferBeforeMin: 0, BufferAfterMin: 0},
		},
		Employees: []EmployeeSchedule{
			{EmployeeID: "E1", WorkWindow: Interval{Start: 480, End: 1200}},
		},
	}
	e := newTestEngine(s)
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:30:00Z")

	if _, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "solo", Start: start, End: end,
	}); err != nil {
		t.Fatalf("reservation setup failed: %v", err)
	}

	result, err := e.CreateBlocking(context.Background(), CreateBlockingRequest{
		Scope: EmployeeScope{EmployeeIDs: []string{"E1"}},
		Start: start, End: end, ScenarioID: "solo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Processed) != 1 || result.Processed[0].State != PendingReschedule {
		t.Fatalf("expected single PENDING_RESCHEDULE outcome, got %+v", result.Processed)
	}
}

// RetrySweep re-attempts reassignment for reservations sitting in
// PENDING_RESCHEDULE once capacity frees up, without requiring a fresh
// blocking request.
func TestRetrySweepReassignsWhenCapacityFrees(t *testing.T) {
	e := newTestEngine(cascadeScenario())
	start := mustUTC("2025-11-06T08:00:00Z")
	end := mustUTC("2025-11-06T08:30:00Z")

	r, err := e.CreateReservation(context.Background(), CreateReservationRequest{
		ServiceID: "SV", EmployeeID: "E1", ScenarioID: "cascade", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("reservation setup failed: %v", err)
	}

	pending := PendingReschedule
	if _, err := e.Store().Update(r.ReservationID, ReservationUpdate{State: &pending}); err != nil {
		t.Fatalf("failed to force PENDING_RESCHEDULE: %v", err)
	}

	outcomes := e.RetrySweep(context.Background())
	if len(outcomes) != 1 {
		t.Fatalf("expected one sweep outcome, got %d", len(outcomes))
	}
	if outcomes[0].State != Reassigned {
		t.Fatalf("expected sweep to reassign, got %s", outcomes[0].State)
	}
	if outcomes[0].EmployeeID != "E2" {
		t.Fatalf("expected reassignment to E2, got %s", outcomes[0].EmployeeID)
	}
}

// RetrySweep is a no-op over a store with nothing pending.
func TestRetrySweepNoopWhenNothingPending(t *testing.T) {
	e := newTestEngine(cascadeScenario())
	outcomes := e.RetrySweep(context.Background())
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %v", outcomes)
	}
}

package engine

import (
	"context"
	"testing"
)

// Under equipment_selection_policy=least_loaded, the selector must pick the
// equipment with the smaller full-day block overlap for the winning
// employee, even when that equipment is not first in the service's
// compatible_equipment order (service_order would pick the other one).
func TestLeastLoadedPolicyPicksLighterEquipment(t *testing.T) {
	s := &Scenario{
		ID: "least-loaded",
		Services: map[string]Service{
			"S2": {
				ID: "S2", DurationMin: 30, BufferBeforeMin: 10, BufferAfterMin: 5,
				CompatibleEquipment:      []string{"EQ1", "EQ2"},
				EquipmentSelectionPolicy: LeastLoaded,
			},
		},
		Employees: []EmployeeSchedule{
			{EmployeeID: "E1", WorkWindow: Interval{Start: 0, End: 1440}, AssignedEquipment: []string{"EQ1", "EQ2"}},
		},
		Equipment: []Equipment{{EquipmentID: "EQ1"}, {EquipmentID: "EQ2"}},
		// EQ1 is busy for most of the day elsewhere; EQ2 is lightly loaded.
		EquipmentOccupations: []Occupation{
			{EquipmentID: "EQ1", Start: mustUTC("2025-11-06T00:00:00Z"), End: mustUTC("2025-11-06T20:00:00Z")},
			{EquipmentID: "EQ2", Start: mustUTC("2025-11-06T23:00:00Z"), End: mustUTC("2025-11-06T23:30:00Z")},
		},
	}
	e := newTestEngine(s)
	cands, err := e.Search(context.Background(), SearchRequest{
		ServiceID: "S2", ScenarioID: "least-loaded",
		Start: mustUTC("2025-11-06T20:30:00Z"), End: mustUTC("2025-11-06T22:00:00Z"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate")
	}
	for _, c := range cands {
		if c.EquipmentID != "EQ2" {
			t.Fatalf("expected EQ2 (lighter full-day load) to be selected under least_loaded, got %s", c.EquipmentID)
		}
	}
}

// service_order (the default) picks the smallest index in the service's
// ordered compatible_equipment list, ignoring load.
func TestServiceOrderPolicyPicksFirstCompatible(t *testing.T) {
	s := &Scenario{
		ID: "service-order",
		Services: map[string]Service{
			"S2": {
				ID: "S2", DurationMin: 30, BufferBeforeMin: 10, BufferAfterMin: 5,
				CompatibleEquipment: []string{"EQ1", "EQ2"},
			},
		},
		Employees: []EmployeeSchedule{
			{EmployeeID: "E1", WorkWindow: Interval{Start: 480, End: 1200}, AssignedEquipment: []string{"EQ1", "EQ2"}},
		},
		Equipment: []Equipment{{EquipmentID: "EQ1"}, {EquipmentID: "EQ2"}},
	}
	e := newTestEngine(s)
	cands, err := e.Search(context.Background(), SearchRequest{
		ServiceID: "S2", ScenarioID: "service-order",
		Start: mustUTC("2025-11-06T08:00:00Z"), End: mustUTC("2025-11-06T09:00:00Z"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate")
	}
	for _, c := range cands {
		if c.EquipmentID != "EQ1" {
			t.Fatalf("expected EQ1 (first in compatible_equipment order) to be selected, got %s", c.EquipmentID)
		}
	}
}

// Employee tie-break must be deterministic: the smallest employee id wins
// when loads are equal.
func TestEmployeeTieBreakIsLexicographic(t *testing.T) {
	s := &Scenario{
		ID: "tie",
		Services: map[string]Service{
			"SV": {ID: "SV", DurationMin: 30, BufferBeforeMin: 0, BufferAfterMin: 0},
		},
		Employees: []EmployeeSchedule{
			{EmployeeID: "Zeta", WorkWindow: Interval{Start: 480, End: 1200}},
			{EmployeeID: "Alpha", WorkWindow: Interval{Start: 480, End: 1200}},
		},
	}
	e := newTestEngine(s)
	cands, err := e.Search(context.Background(), SearchRequest{
		ServiceID: "SV", ScenarioID: "tie",
		Start: mustUTC("2025-11-06T08:00:00Z"), End: mustUTC("2025-11-06T08:30:00Z"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected exactly one deduped slot, got %d", len(cands))
	}
	if cands[0].EmployeeID != "Alpha" {
		t.Fatalf("expected lexicographically smaller employee id to win tie, got %s", cands[0].EmployeeID)
	}
}

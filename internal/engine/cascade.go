package engine

import (
	"context"
	"time"
)

// CreateBlockingRequest is the input to CreateBlocking.
type CreateBlockingRequest struct {
	Scope        ExceptionScope
	Start        time.Time
	End          time.Time
	Reason       string
	EmployeeIDs  []string
	EquipmentIDs []string
	ServiceIDs   []string
	ScenarioID   string
}

// ReservationOutcome records what happened to one affected reservation
// during cascade processing.
type ReservationOutcome struct {
	ReservationID string
	State         ReservationState
	EmployeeID    string
	EquipmentID   string
}

// CreateBlockingResult is returned by CreateBlocking.
type CreateBlockingResult struct {
	BlockingID string
	Processed  []ReservationOutcome
}

// CreateBlocking persists an operational blocking, then for each reservation
// intersecting it and matching scope, attempts same-slot reassignment
// (excluding the originally-blocked employee), falls back to a conservative
// scenario-employee scan, and otherwise marks PENDING_RESCHEDULE.
// Business-scope blockings always mark PENDING_RESCHEDULE.
func (e *Engine) CreateBlocking(ctx context.Context, req CreateBlockingRequest) (CreateBlockingResult, error) {
	// Target ids carried by the scope variant fill any target list left empty.
	switch s := req.Scope.(type) {
	case EmployeeScope:
		if len(req.EmployeeIDs) == 0 {
			req.EmployeeIDs = s.EmployeeIDs
		}
	case EquipmentScope:
		if len(req.EquipmentIDs) == 0 {
			req.EquipmentIDs = s.EquipmentIDs
		}
	case ServiceScope:
		if len(req.ServiceIDs) == 0 {
			req.ServiceIDs = s.ServiceIDs
		}
	}

	blocking, err := e.store.AddBlocking(NewBlocking{
		Scope: req.Scope, Start: req.Start, End: req.End, Reason: req.Reason,
		EmployeeIDs: req.EmployeeIDs, EquipmentIDs: req.EquipmentIDs, ServiceIDs: req.ServiceIDs,
	})
	if err != nil {
		return CreateBlockingResult{}, err
	}

	snapshot := e.store.ListReservations()
	result := CreateBlockingResult{BlockingID: blocking.ID}

	for _, r := range snapshot {
		if r.State != Confirmed && r.State != Reassigned {
			continue
		}
		if !overlapsRange(r.Start, r.End, req.Start, req.End) {
			continue
		}
		if !scopeMatches(req.Scope, req.EmployeeIDs, req.EquipmentIDs, req.ServiceIDs, r) {
			continue
		}

		if _, isBusiness := req.Scope.(BusinessScope); isBusiness {
			result.Processed = append(result.Processed, e.markPending(r))
			continue
		}

		result.Processed = append(result.Processed, e.reassign(ctx, r, req))
	}

	return result, nil
}

func scopeMatches(scope ExceptionScope, employeeIDs, equipmentIDs, serviceIDs []string, r Reservation) bool {
	switch scope.(type) {
	case BusinessScope:
		return true
	case EmployeeScope:
		return len(employeeIDs) == 0 || containsString(employeeIDs, r.EmployeeID)
	case EquipmentScope:
		return len(equipmentIDs) == 0 || containsString(equipmentIDs, r.EquipmentID)
	case ServiceScope:
		return len(serviceIDs) == 0 || containsString(serviceIDs, r.ServiceID)
	default:
		return false
	}
}

func (e *Engine) markPending(r Reservation) ReservationOutcome {
	state := PendingReschedule
	updated, err := e.store.Update(r.ReservationID, ReservationUpdate{State: &state})
	if err != nil {
		return ReservationOutcome{ReservationID: r.ReservationID, State: PendingReschedule}
	}
	return ReservationOutcome{ReservationID: updated.ReservationID, State: updated.State, EmployeeID: updated.EmployeeID, EquipmentID: updated.EquipmentID}
}

// reassign attempts same-slot reassignment for a reservation affected by a
// non-business-scope blocking.
func (e *Engine) reassign(ctx context.Context, r Reservation, req CreateBlockingRequest) ReservationOutcome {
	equipmentID := r.EquipmentID
	if eqScope, ok := req.Scope.(EquipmentScope); ok {
		if len(eqScope.EquipmentIDs) == 0 || containsString(eqScope.EquipmentIDs, equipmentID) {
			equipmentID = ""
		}
	}

	candidates, err := e.Search(ctx, SearchRequest{
		ServiceID: r.ServiceID, EquipmentID: equipmentID, Start: r.Start, End: r.End,
		ScenarioID: r.ScenarioID, ExcludeEmployeeID: r.EmployeeID,
	})
	if err == nil {
		for _, c := range candidates {
			if c.Start.Equal(r.Start) && c.End.Equal(r.End) && c.EmployeeID != r.EmployeeID {
				return e.applyReassignment(r, c.EmployeeID, c.EquipmentID)
			}
		}
	}

	if newEmployeeID, ok := e.fallbackScanScenario(ctx, r, req.ScenarioID); ok {
		return e.applyReassignment(r, newEmployeeID, equipmentID)
	}

	return e.markPending(r)
}

func (e *Engine) applyReassignment(r Reservation, employeeID, equipmentID string) ReservationOutcome {
	state := Reassigned
	updated, err := e.store.Update(r.ReservationID, ReservationUpdate{
		EmployeeID: &employeeID, EquipmentID: &equipmentID, State: &state,
	})
	if err != nil {
		return e.markPending(r)
	}
	return ReservationOutcome{ReservationID: updated.ReservationID, State: updated.State, EmployeeID: updated.EmployeeID, EquipmentID: updated.EquipmentID}
}

// RetrySweep re-attempts same-slot reassignment for every reservation
// still sitting in PENDING_RESCHEDULE, per the reschedule-sweep worker
// (cron/worker.go). It reuses the cascade's reassignment search without a
// fresh blocking scope, since the blocking that produced PENDING_RESCHEDULE
// is no longer in hand by the time the sweep runs; a nil scope leaves the
// reservation's current equipment untouched in the retry search.
func (e *Engine) RetrySweep(ctx context.Context) []ReservationOutcome {
	var outcomes []ReservationOutcome
	for _, r := range e.store.ListReservations() {
		if r.State != PendingReschedule {
			continue
		}
		outcomes = append(outcomes, e.reassign(ctx, r, CreateBlockingRequest{ScenarioID: r.ScenarioID}))
	}
	return outcomes
}

// fallbackScanScenario is the conservative fallback: when a scenario is
// known, scan its employees for one assigned to the service (if
// assignments are declared) who does not presently conflict with the
// reservation's (equipment, start, end).
func (e *Engine) fallbackScanScenario(ctx context.Context, r Reservation, scenarioID string) (string, bool) {
	if scenarioID == "" || e.Scenarios == nil {
		return "", false
	}
	scenario, err := e.Scenarios.LoadScenario(ctx, scenarioID)
	if err != nil || scenario == nil {
		return "", false
	}

	for _, emp := range scenario.Employees {
		if emp.EmployeeID == r.EmployeeID {
			continue
		}
		if !emp.assignedToService(r.ServiceID) {
			continue
		}
		if e.store.HasConflict(emp.EmployeeID, r.EquipmentID, r.Start, r.End) {
			continue
		}
		return emp.EmployeeID, true
	}
	return "", false
}

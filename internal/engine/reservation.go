package engine

import (
	"context"
	"time"
)

// CreateReservationRequest is the input to CreateReservation.
type CreateReservationRequest struct {
	ServiceID   string
	EmployeeID  string
	EquipmentID string
	Start       time.Time
	End         time.Time
	ScenarioID  string
	Policy      WindowPolicy
}

// CreateReservation validates the request, probes for conflicts, confirms
// the slot against a fresh availability search, re-probes, and inserts
// under the store's lock.
func (e *Engine) CreateReservation(ctx context.Context, req CreateReservationRequest) (Reservation, error) {
	if !req.End.After(req.Start) {
		return Reservation{}, newError(InvalidRange, "end must be after start")
	}

	scenario, err := e.loadScenario(ctx, req.ScenarioID)
	if err != nil {
		return Reservation{}, err
	}
	service, err := e.resolveService(ctx, scenario, req.ServiceID)
	if err != nil {
		return Reservation{}, err
	}
	if service == nil {
		return Reservation{}, newError(ServiceNotFound, "service not found: "+req.ServiceID)
	}

	if int(req.End.Sub(req.Start).Minutes()) != service.TotalSlot() {
		return Reservation{}, newError(InvalidSlotLength, "slot length does not match service total_slot")
	}

	if e.store.HasConflict(req.EmployeeID, req.EquipmentID, req.Start, req.End) {
		return Reservation{}, newError(Conflict, "slot already reserved")
	}

	candidates, err := e.Search(ctx, SearchRequest{
		ServiceID: req.ServiceID, EmployeeID: req.EmployeeID, EquipmentID: req.EquipmentID,
		Start: req.Start, End: req.End, ScenarioID: req.ScenarioID, Policy: req.Policy,
	})
	if err != nil {
		return Reservation{}, err
	}

	match := false
	for _, c := range candidates {
		if !c.Start.Equal(req.Start) || !c.End.Equal(req.End) {
			continue
		}
		if req.EmployeeID != "" && c.EmployeeID != req.EmployeeID {
			continue
		}
		if req.EquipmentID != "" && c.EquipmentID != req.EquipmentID {
			continue
		}
		match = true
		break
	}

	if !match {
		if e.store.HasConflict(req.EmployeeID, req.EquipmentID, req.Start, req.End) {
			return Reservation{}, newError(Conflict, "slot already reserved")
		}
		return Reservation{}, newError(SlotUnavailable, "no matching slot in availability")
	}

	return e.store.Add(NewReservation{
		ServiceID: req.ServiceID, EmployeeID: req.EmployeeID, EquipmentID: req.EquipmentID,
		Start: req.Start, End: req.End, ScenarioID: req.ScenarioID,
	})
}

package engine

import (
	"context"
	"time"
)

// blockWindow bundles the time context every blocking query shares.
type blockWindow struct {
	baseMidnight time.Time
	reqStart     time.Time
	reqEnd       time.Time
	scenario     *Scenario
	serviceID    string
}

func toMinutes(base, t time.Time) int {
	return int(t.Sub(base).Minutes())
}

func (e *Engine) toInterval(bw blockWindow, start, end time.Time) Interval {
	return Interval{Start: toMinutes(bw.baseMidnight, start), End: toMinutes(bw.baseMidnight, end)}
}

// globalBlocks builds the blocking list that applies regardless of which
// employee or equipment is under consideration: business-scope exceptions,
// service-scope exceptions targeting the current service, and persisted
// operational blockings with business or matching-service scope. Computed
// once per search; it is invariant across employees and equipment within
// one request.
func (e *Engine) globalBlocks(ctx context.Context, bw blockWindow) []Interval {
	var out []Interval

	for _, exc := range e.resolveExceptionsFor(ctx, bw) {
		switch scope := exc.Scope.(type) {
		case BusinessScope:
			out = append(out, e.toInterval(bw, exc.Start, exc.End))
		case ServiceScope:
			if containsString(scope.ServiceIDs, bw.serviceID) {
				out = append(out, e.toInterval(bw, exc.Start, exc.End))
			}
		}
	}

	for _, b := range e.store.ListBlockingsIntersecting(bw.reqStart, bw.reqEnd) {
		switch b.Scope.(type) {
		case BusinessScope:
			out = append(out, e.toInterval(bw, b.Start, b.End))
		case ServiceScope:
			if containsString(b.ServiceIDs, bw.serviceID) {
				out = append(out, e.toInterval(bw, b.Start, b.End))
			}
		}
	}

	return Normalize(out)
}

// employeeBlocks builds blocksByEmployee[employeeID]: employee occupations,
// employee-scope exceptions/blockings targeting this employee (or carrying
// an empty target list, which applies to every employee), and confirmed
// reservations overlapping the request window for this employee.
func (e *Engine) employeeBlocks(ctx context.Context, bw blockWindow, employeeID string) ([]Interval, error) {
	var out []Interval

	occs, err := e.resolveOccupationsFor(ctx, bw, employeeID)
	if err != nil {
		return nil, err
	}
	for _, occ := range occs {
		out = append(out, e.toInterval(bw, occ.Start, occ.End))
	}

	for _, exc := range e.resolveExceptionsFor(ctx, bw) {
		if scope, ok := exc.Scope.(EmployeeScope); ok {
			if len(scope.EmployeeIDs) == 0 || containsString(scope.EmployeeIDs, employeeID) {
				out = append(out, e.toInterval(bw, exc.Start, exc.End))
			}
		}
	}

	for _, b := range e.store.ListBlockingsIntersecting(bw.reqStart, bw.reqEnd) {
		if _, ok := b.Scope.(EmployeeScope); !ok {
			continue
		}
		if len(b.EmployeeIDs) == 0 || containsString(b.EmployeeIDs, employeeID) {
			out = append(out, e.toInterval(bw, b.Start, b.End))
		}
	}

	for _, r := range e.store.ListInRange(bw.reqStart, bw.reqEnd) {
		if r.State == PendingReschedule || r.EmployeeID != employeeID {
			continue
		}
		out = append(out, e.toInterval(bw, r.Start, r.End))
	}

	return Normalize(out), nil
}

// equipmentBlocks builds the blocking list for one piece of equipment:
// equipment occupations (scenario-declared, or repository-backed when one
// is wired), equipment-scope exceptions/blockings targeting it, and
// reservations matching it.
func (e *Engine) equipmentBlocks(ctx context.Context, bw blockWindow, equipmentID string) []Interval {
	var out []Interval

	for _, occ := range e.resolveEquipmentOccupationsFor(ctx, bw, equipmentID) {
		out = append(out, e.toInterval(bw, occ.Start, occ.End))
	}

	for _, exc := range e.resolveExceptionsFor(ctx, bw) {
		if scope, ok := exc.Scope.(EquipmentScope); ok {
			if len(scope.EquipmentIDs) == 0 || containsString(scope.EquipmentIDs, equipmentID) {
				out = append(out, e.toInterval(bw, exc.Start, exc.End))
			}
		}
	}

	for _, b := range e.store.ListBlockingsIntersecting(bw.reqStart, bw.reqEnd) {
		if _, ok := b.Scope.(EquipmentScope); !ok {
			continue
		}
		if len(b.EquipmentIDs) == 0 || containsString(b.EquipmentIDs, equipmentID) {
			out = append(out, e.toInterval(bw, b.Start, b.End))
		}
	}

	for _, r := range e.store.ListInRange(bw.reqStart, bw.reqEnd) {
		if r.State == PendingReschedule || r.EquipmentID != equipmentID {
			continue
		}
		out = append(out, e.toInterval(bw, r.Start, r.End))
	}

	return Normalize(out)
}

func (e *Engine) resolveOccupationsFor(ctx context.Context, bw blockWindow, employeeID string) ([]Occupation, error) {
	if bw.scenario != nil {
		var out []Occupation
		for _, occ := range bw.scenario.Occupations {
			if occ.EmployeeID == employeeID {
				out = append(out, occ)
			}
		}
		return out, nil
	}
	if e.Occupations == nil {
		return nil, nil
	}
	return e.Occupations.GetOccupations(ctx, []string{employeeID}, bw.reqStart, bw.reqEnd)
}

func (e *Engine) resolveEquipmentOccupationsFor(ctx context.Context, bw blockWindow, equipmentID string) []Occupation {
	if bw.scenario != nil {
		var out []Occupation
		for _, occ := range bw.scenario.EquipmentOccupations {
			if occ.EquipmentID == equipmentID {
				out = append(out, occ)
			}
		}
		return out
	}
	if e.EquipmentOccupations == nil {
		return nil
	}
	occs, err := e.EquipmentOccupations.GetEquipmentOccupations(ctx, equipmentID, bw.reqStart, bw.reqEnd)
	if err != nil {
		return nil
	}
	return occs
}

func (e *Engine) resolveExceptionsFor(ctx context.Context, bw blockWindow) []Exception {
	if bw.scenario != nil {
		return bw.scenario.Exceptions
	}
	if e.Exceptions == nil {
		return nil
	}
	excs, err := e.Exceptions.GetExceptions(ctx, bw.reqStart, bw.reqEnd)
	if err != nil {
		return nil
	}
	return excs
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

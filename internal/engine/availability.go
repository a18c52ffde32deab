package engine

import (
	"context"
	"time"
)

// Candidate is a single emitted availability result: a concrete buffered
// slot assigned (tentatively) to an employee and, when applicable, a piece
// of equipment.
type Candidate struct {
	Start       time.Time
	End         time.Time
	EmployeeID  string
	EquipmentID string
}

// SearchRequest is the input to the availability search.
type SearchRequest struct {
	ServiceID   string
	EmployeeID  string
	EquipmentID string
	Start       time.Time
	End         time.Time
	ScenarioID  string
	Policy      WindowPolicy

	// ExcludeEmployeeID removes a single employee from the candidate pool;
	// used by the blocking cascade when reassigning away from a blocked
	// employee.
	ExcludeEmployeeID string
}

// searchState carries everything shared across the three regime loops,
// including a per-search cache so employee and equipment blocks are
// computed once each rather than re-aggregated per candidate.
type searchState struct {
	ctx              context.Context
	engine           *Engine
	baseMidnight     time.Time
	reqWin           Interval
	bw               blockWindow
	service          *Service
	policy           WindowPolicy
	totalSlot        int
	bufBefore        int
	startConstraints []Interval
	global           []Interval

	employeeCache  map[string][]Interval
	equipmentCache map[string][]Interval
}

func (st *searchState) employeeBlocksCached(employeeID string) ([]Interval, error) {
	if blocks, ok := st.employeeCache[employeeID]; ok {
		return blocks, nil
	}
	blocks, err := st.engine.employeeBlocks(st.ctx, st.bw, employeeID)
	if err != nil {
		return nil, err
	}
	st.employeeCache[employeeID] = blocks
	return blocks, nil
}

func (st *searchState) equipmentBlocksCached(equipmentID string) []Interval {
	if blocks, ok := st.equipmentCache[equipmentID]; ok {
		return blocks
	}
	blocks := st.engine.equipmentBlocks(st.ctx, st.bw, equipmentID)
	st.equipmentCache[equipmentID] = blocks
	return blocks
}

// Search enumerates candidate slots under the regime implied by the
// request's filters, deduplicates them with load-balanced selection, and
// returns the result sorted by start instant.
func (e *Engine) Search(ctx context.Context, req SearchRequest) ([]Candidate, error) {
	if !req.End.After(req.Start) {
		return nil, newError(InvalidRange, "end must be after start")
	}

	scenario, err := e.loadScenario(ctx, req.ScenarioID)
	if err != nil {
		return nil, err
	}

	service, err := e.resolveService(ctx, scenario, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, newError(ServiceNotFound, "service not found: "+req.ServiceID)
	}

	if req.EquipmentID != "" && service.RequiresEquipment() && !containsString(service.CompatibleEquipment, req.EquipmentID) {
		return nil, newError(InvalidEquipment, "equipment not compatible with service: "+req.EquipmentID)
	}

	policy := req.Policy
	if policy == "" {
		policy = StartOnly
	}

	baseMidnight := startOfDayUTC(req.Start)
	reqWin := Interval{Start: toMinutes(baseMidnight, req.Start), End: toMinutes(baseMidnight, req.End)}

	startConstraints := startConstraintWindow(reqWin, e.businessWindow(scenario), service.AttentionWindow)

	bw := blockWindow{baseMidnight: baseMidnight, reqStart: req.Start, reqEnd: req.End, scenario: scenario, serviceID: req.ServiceID}
	st := &searchState{
		ctx: ctx, engine: e, baseMidnight: baseMidnight, reqWin: reqWin, bw: bw,
		service: service, policy: policy, totalSlot: service.TotalSlot(), bufBefore: service.BufferBeforeMin,
		startConstraints: startConstraints, global: e.globalBlocks(ctx, bw),
		employeeCache: make(map[string][]Interval), equipmentCache: make(map[string][]Interval),
	}

	if len(startConstraints) == 0 {
		return nil, nil
	}

	filter := ScheduleFilter{ServiceID: req.ServiceID, EquipmentID: req.EquipmentID}
	employees, err := e.resolveEmployees(ctx, scenario, filter)
	if err != nil {
		return nil, err
	}

	var eligible []EmployeeSchedule
	for _, emp := range employees {
		if req.EmployeeID != "" && emp.EmployeeID != req.EmployeeID {
			continue
		}
		if req.ExcludeEmployeeID != "" && emp.EmployeeID == req.ExcludeEmployeeID {
			continue
		}
		if !emp.assignedToService(req.ServiceID) {
			continue
		}
		eligible = append(eligible, emp)
	}

	var candidates []Candidate
	switch {
	case req.EquipmentID != "":
		candidates, err = st.searchByEquipment(eligible, req.EquipmentID)
	case req.EmployeeID != "":
		candidates, err = st.searchByEmployee(eligible)
	default:
		candidates, err = st.searchPool(eligible)
	}
	if err != nil {
		return nil, err
	}

	regime := regimePool
	if req.EquipmentID != "" {
		regime = regimeByEquipment
	} else if req.EmployeeID != "" {
		regime = regimeByEmployee
	}

	return selectCandidates(candidates, selectorInput{
		engine:       e,
		baseMidnight: baseMidnight,
		reqWin:       reqWin,
		bw:           bw,
		service:      service,
		regime:       regime,
		st:           st,
	})
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func (st *searchState) packFor(freeEmp []Interval, freeEq []Interval, hasEquipment bool) []int {
	var pre []int
	for _, sw := range st.startConstraints {
		freePack := freeEmp
		if hasEquipment {
			freePack = Intersect(freeEmp, freeEq)
		}
		if st.policy == FullSlot && st.service.AttentionWindow != nil {
			attnAbs := expandByOffsets(*st.service.AttentionWindow, dayOffsets(st.reqWin))
			freePack = Intersect(freePack, attnAbs)
		}
		pre = append(pre, PackSlots(sw, freePack, st.totalSlot, st.bufBefore)...)
	}
	return pre
}

func (st *searchState) toCandidate(preStart int, employeeID, equipmentID string) Candidate {
	start := st.baseMidnight.Add(time.Duration(preStart) * time.Minute)
	end := start.Add(time.Duration(st.totalSlot) * time.Minute)
	return Candidate{Start: start, End: end, EmployeeID: employeeID, EquipmentID: equipmentID}
}

func (st *searchState) freeForEmployee(emp EmployeeSchedule) ([]Interval, error) {
	empBlocks, err := st.employeeBlocksCached(emp.EmployeeID)
	if err != nil {
		return nil, err
	}
	workWinAbs := expandByOffsets(emp.WorkWindow, dayOffsets(st.reqWin))
	free := Subtract(workWinAbs, append(append([]Interval{}, empBlocks...), st.global...))
	return Intersect(free, []Interval{st.reqWin}), nil
}

// searchByEquipment emits slots where both the employee and the given
// equipment are simultaneously free.
func (st *searchState) searchByEquipment(eligible []EmployeeSchedule, equipmentID string) ([]Candidate, error) {
	eqRecord := st.engine.resolveEquipmentRecord(st.ctx, st.bw.scenario, equipmentID)
	var opWin Interval
	if eqRecord != nil && eqRecord.OperatingWindow != nil {
		opWin = *eqRecord.OperatingWindow
	} else {
		opWin = st.reqWin
	}
	opWinAbs := expandByOffsets(opWin, dayOffsets(st.reqWin))
	eqBlocks := st.equipmentBlocksCached(equipmentID)
	freeEq := Subtract(opWinAbs, append(append([]Interval{}, eqBlocks...), st.global...))

	var candidates []Candidate
	for _, emp := range eligible {
		if len(emp.AssignedEquipment) > 0 && !emp.assignedEquipmentSet()[equipmentID] {
			continue
		}
		freeEmp, err := st.freeForEmployee(emp)
		if err != nil {
			return nil, err
		}
		for _, p := range st.packFor(freeEmp, freeEq, true) {
			candidates = append(candidates, st.toCandidate(p, emp.EmployeeID, equipmentID))
		}
	}
	return candidates, nil
}

// searchByEmployee emits slots for the filtered employee, one pass per
// compatible equipment option when the service requires equipment.
func (st *searchState) searchByEmployee(eligible []EmployeeSchedule) ([]Candidate, error) {
	var candidates []Candidate
	for _, emp := range eligible {
		equipOptions := intersectOrdered(st.service.CompatibleEquipment, emp.AssignedEquipment)
		if st.service.RequiresEquipment() {
			if len(equipOptions) == 0 {
				continue
			}
			for _, eqID := range equipOptions {
				cands, err := st.searchByEquipment([]EmployeeSchedule{emp}, eqID)
				if err != nil {
					return nil, err
				}
				candidates = append(candidates, cands...)
			}
			continue
		}

		freeEmp, err := st.freeForEmployee(emp)
		if err != nil {
			return nil, err
		}
		for _, p := range st.packFor(freeEmp, nil, false) {
			candidates = append(candidates, st.toCandidate(p, emp.EmployeeID, ""))
		}
	}
	return candidates, nil
}

// searchPool emits slots over every eligible employee, iterating their
// compatible-and-assigned equipment when the service requires one.
func (st *searchState) searchPool(eligible []EmployeeSchedule) ([]Candidate, error) {
	var candidates []Candidate
	for _, emp := range eligible {
		if st.service.RequiresEquipment() {
			equipOptions := intersectOrdered(st.service.CompatibleEquipment, emp.AssignedEquipment)
			for _, eqID := range equipOptions {
				cands, err := st.searchByEquipment([]EmployeeSchedule{emp}, eqID)
				if err != nil {
					return nil, err
				}
				candidates = append(candidates, cands...)
			}
			continue
		}

		freeEmp, err := st.freeForEmployee(emp)
		if err != nil {
			return nil, err
		}
		for _, p := range st.packFor(freeEmp, nil, false) {
			candidates = append(candidates, st.toCandidate(p, emp.EmployeeID, ""))
		}
	}
	return candidates, nil
}

// intersectOrdered returns the elements of pref that also appear in have,
// preserving pref's order so the service's compatible-equipment preference
// survives the filter.
func intersectOrdered(pref, have []string) []string {
	haveSet := make(map[string]bool, len(have))
	for _, h := range have {
		haveSet[h] = true
	}
	var out []string
	for _, p := range pref {
		if haveSet[p] {
			out = append(out, p)
		}
	}
	return out
}

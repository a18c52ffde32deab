package engine

import (
	"sort"
	"time"
)

// regime identifies which of the three availability search modes produced
// a candidate list, since the load-balancing selector's dedup key and
// equipment-resolution behavior both depend on it.
type regime int

const (
	regimePool regime = iota
	regimeByEquipment
	regimeByEmployee
)

type selectorInput struct {
	engine       *Engine
	baseMidnight time.Time
	reqWin       Interval
	bw           blockWindow
	service      *Service
	regime       regime
	st           *searchState
}

type dedupKey struct {
	start, end  time.Time
	equipmentID string
}

// selectCandidates deduplicates candidates by the regime's grouping key,
// picks the least-loaded employee with a deterministic tie-break, resolves
// equipment when the dedup key ignored it, and returns results sorted by
// start instant.
func selectCandidates(candidates []Candidate, in selectorInput) ([]Candidate, error) {
	groups := make(map[dedupKey][]Candidate)
	var order []dedupKey
	for _, c := range candidates {
		var key dedupKey
		switch in.regime {
		case regimeByEquipment:
			key = dedupKey{start: c.Start, end: c.End, equipmentID: c.EquipmentID}
		default:
			key = dedupKey{start: c.Start, end: c.End}
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	loads := make(map[string]int)
	var out []Candidate
	for _, key := range order {
		group := groups[key]
		winner, err := in.pickWinner(group, loads)
		if err != nil {
			return nil, err
		}
		out = append(out, winner)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (in selectorInput) employeeLoad(employeeID string, loads map[string]int) (int, error) {
	if l, ok := loads[employeeID]; ok {
		return l, nil
	}
	blocks, err := in.st.employeeBlocksCached(employeeID)
	if err != nil {
		return 0, err
	}
	load := sumIntersectionMinutes(blocks, in.reqWin)
	loads[employeeID] = load
	return load, nil
}

func sumIntersectionMinutes(blocks []Interval, window Interval) int {
	total := 0
	for _, iv := range Intersect(blocks, []Interval{window}) {
		total += iv.End - iv.Start
	}
	return total
}

// employeeOptions collects the distinct equipment ids a single employee was
// offered within one dedup group, plus whether any candidate offered no
// equipment at all (service does not require one).
type employeeOptions struct {
	employeeID string
	equipment  []string
	noEquip    bool
	sample     Candidate
}

// pickWinner selects one candidate per dedup group: smallest employee
// load over the request window, tie-broken by smallest employee id
// lexicographically; when the dedup key ignored equipment and the service
// requires one, resolves it via the service's equipment-selection policy
// among only the winning employee's offered equipment — not whichever
// equipment happened to appear first for that employee in emission order.
func (in selectorInput) pickWinner(group []Candidate, loads map[string]int) (Candidate, error) {
	var order []string
	byEmployee := make(map[string]*employeeOptions)
	for _, c := range group {
		opts, ok := byEmployee[c.EmployeeID]
		if !ok {
			opts = &employeeOptions{employeeID: c.EmployeeID, sample: c}
			byEmployee[c.EmployeeID] = opts
			order = append(order, c.EmployeeID)
		}
		if c.EquipmentID == "" {
			opts.noEquip = true
			continue
		}
		alreadySeen := false
		for _, eq := range opts.equipment {
			if eq == c.EquipmentID {
				alreadySeen = true
				break
			}
		}
		if !alreadySeen {
			opts.equipment = append(opts.equipment, c.EquipmentID)
		}
	}

	bestEmployee := order[0]
	bestLoad := -1
	for _, empID := range order {
		load, err := in.employeeLoad(empID, loads)
		if err != nil {
			return Candidate{}, err
		}
		if bestLoad == -1 || load < bestLoad || (load == bestLoad && empID < bestEmployee) {
			bestEmployee, bestLoad = empID, load
		}
	}

	opts := byEmployee[bestEmployee]
	winner := opts.sample
	winner.EmployeeID = bestEmployee

	switch {
	case in.regime != regimeByEquipment && in.service.RequiresEquipment() && len(opts.equipment) > 0:
		eqID, err := in.resolveEquipmentAmong(opts.equipment)
		if err != nil {
			return Candidate{}, err
		}
		winner.EquipmentID = eqID
	case opts.noEquip:
		winner.EquipmentID = ""
	case len(opts.equipment) == 1:
		winner.EquipmentID = opts.equipment[0]
	}
	return winner, nil
}

// resolveEquipmentAmong applies the service's equipment_selection_policy
// over a specific employee's offered equipment options: service_order
// picks the smallest index in the service's ordered compatible list
// (lexicographic tie-break), least_loaded picks the equipment with the
// least full-day block overlap.
func (in selectorInput) resolveEquipmentAmong(options []string) (string, error) {
	optionSet := make(map[string]bool, len(options))
	for _, o := range options {
		optionSet[o] = true
	}

	policy := in.service.equipmentPolicy()
	if policy == ServiceOrder {
		for _, eqID := range in.service.CompatibleEquipment {
			if optionSet[eqID] {
				return eqID, nil
			}
		}
		return smallestKey(optionSet), nil
	}

	fullDay := Interval{Start: 0, End: 1440}
	fullDayStart := in.baseMidnight
	fullDayEnd := in.baseMidnight.Add(24 * time.Hour)
	dayBW := blockWindow{baseMidnight: in.baseMidnight, reqStart: fullDayStart, reqEnd: fullDayEnd, scenario: in.bw.scenario, serviceID: in.bw.serviceID}

	best := ""
	bestLoad := -1
	var ids []string
	for eqID := range optionSet {
		ids = append(ids, eqID)
	}
	sort.Strings(ids)
	for _, eqID := range ids {
		blocks := in.engine.equipmentBlocks(in.st.ctx, dayBW, eqID)
		load := sumIntersectionMinutes(blocks, fullDay)
		if best == "" || load < bestLoad {
			best, bestLoad = eqID, load
		}
	}
	return best, nil
}

func smallestKey(set map[string]bool) string {
	var keys []string
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

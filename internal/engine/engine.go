package engine

import (
	"context"
	"time"
)

// Engine wires the repository contracts and the reservation store behind
// small single-method interfaces so tests can supply fakes without any
// package-level mutable state.
type Engine struct {
	Services             ServiceRepository
	Employees            EmployeeRepository
	Occupations          OccupationRepository
	EquipmentOccupations EquipmentOccupationRepository
	Equipment            EquipmentRepository
	Exceptions           ExceptionRepository
	Scenarios            ScenarioRepository

	store ReservationStore
}

// New builds an Engine over the given repositories and reservation store.
func New(store ReservationStore, services ServiceRepository, employees EmployeeRepository,
	occupations OccupationRepository, scenarios ScenarioRepository) *Engine {
	return &Engine{
		store:       store,
		Services:    services,
		Employees:   employees,
		Occupations: occupations,
		Scenarios:   scenarios,
	}
}

// Store exposes the underlying ReservationStore for callers that need it
// directly.
func (e *Engine) Store() ReservationStore { return e.store }

func (e *Engine) loadScenario(ctx context.Context, scenarioID string) (*Scenario, error) {
	if scenarioID == "" || e.Scenarios == nil {
		return nil, nil
	}
	return e.Scenarios.LoadScenario(ctx, scenarioID)
}

func (e *Engine) resolveService(ctx context.Context, scenario *Scenario, serviceID string) (*Service, error) {
	if scenario != nil {
		if svc, ok := scenario.Services[serviceID]; ok {
			return &svc, nil
		}
	}
	if e.Services == nil {
		return nil, nil
	}
	return e.Services.GetService(ctx, serviceID)
}

func (e *Engine) resolveEmployees(ctx context.Context, scenario *Scenario, filter ScheduleFilter) ([]EmployeeSchedule, error) {
	if scenario != nil {
		return scenario.Employees, nil
	}
	if e.Employees == nil {
		return nil, nil
	}
	return e.Employees.GetEmployeeSchedules(ctx, time.Time{}, filter)
}

func (e *Engine) resolveEquipmentRecord(ctx context.Context, scenario *Scenario, equipmentID string) *Equipment {
	if scenario != nil {
		for _, eq := range scenario.Equipment {
			if eq.EquipmentID == equipmentID {
				return &eq
			}
		}
	}
	if e.Equipment != nil {
		if eq, err := e.Equipment.GetEquipment(ctx, equipmentID); err == nil && eq != nil {
			return eq
		}
	}
	return nil
}

func (e *Engine) businessWindow(scenario *Scenario) *Interval {
	if scenario == nil {
		return nil
	}
	return scenario.BusinessWindow
}

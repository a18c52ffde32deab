package engine

import (
	"context"
	"time"
)

// ServiceRepository resolves a Service by id when no scenario overrides it.
type ServiceRepository interface {
	GetService(ctx context.Context, id string) (*Service, error)
}

// ScheduleFilter narrows GetEmployeeSchedules to employees eligible for a
// given service and/or equipment.
type ScheduleFilter struct {
	ServiceID   string
	EquipmentID string
}

// EmployeeRepository resolves employee schedules for a given day.
type EmployeeRepository interface {
	GetEmployeeSchedules(ctx context.Context, baseDay time.Time, filter ScheduleFilter) ([]EmployeeSchedule, error)
}

// OccupationRepository resolves pre-existing busy intervals for a set of
// employees over a window; may be injected for testing.
type OccupationRepository interface {
	GetOccupations(ctx context.Context, employeeIDs []string, startUTC, endUTC time.Time) ([]Occupation, error)
}

// EquipmentOccupationRepository is the analogous contract for equipment.
// The default wiring leaves it unset and falls back to scenario-declared
// equipment occupations; a caller with a real source may supply one.
type EquipmentOccupationRepository interface {
	GetEquipmentOccupations(ctx context.Context, equipmentID string, startUTC, endUTC time.Time) ([]Occupation, error)
}

// ScenarioRepository loads a named fixture that overrides repository
// lookups.
type ScenarioRepository interface {
	LoadScenario(ctx context.Context, id string) (*Scenario, error)
}

// ExceptionRepository resolves scoped exceptions intersecting a window,
// outside of a scenario.
type ExceptionRepository interface {
	GetExceptions(ctx context.Context, startUTC, endUTC time.Time) ([]Exception, error)
}

// EquipmentRepository resolves equipment records by id.
type EquipmentRepository interface {
	GetEquipment(ctx context.Context, id string) (*Equipment, error)
}

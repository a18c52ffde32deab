// Package scenario loads the JSON scenario fixture (docs/test_scenarios.json)
// from disk: named, self-contained configurations of services, employees,
// equipment, occupations, and exceptions that override repository lookups.
package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"schedulingengine/internal/engine"
)

type fixtureInterval [2]int

func (fi *fixtureInterval) toEngine() *engine.Interval {
	if fi == nil {
		return nil
	}
	iv := engine.NewInterval(fi[0], fi[1])
	return &iv
}

type fixtureService struct {
	ID                       string           `json:"id"`
	DurationMin              int              `json:"duration_min"`
	BufferBeforeMin          int              `json:"buffer_before_min"`
	BufferAfterMin           int              `json:"buffer_after_min"`
	AttentionWindow          *fixtureInterval `json:"attention_window,omitempty"`
	CompatibleEquipment      []string         `json:"compatible_equipment,omitempty"`
	EquipmentSelectionPolicy string           `json:"equipment_selection_policy,omitempty"`
}

type fixtureEmployee struct {
	EmployeeID        string          `json:"employee_id"`
	WorkWindow        fixtureInterval `json:"work_window"`
	AssignedServices  []string        `json:"assigned_services,omitempty"`
	AssignedEquipment []string        `json:"assigned_equipment,omitempty"`
}

type fixtureEquipment struct {
	EquipoID         string           `json:"equipo_id"`
	HorarioOperativo *fixtureInterval `json:"horario_operativo,omitempty"`
}

type fixtureOccupation struct {
	EmpleadoID string    `json:"empleado_id,omitempty"`
	EquipoID   string    `json:"equipo_id,omitempty"`
	Inicio     time.Time `json:"inicio"`
	Fin        time.Time `json:"fin"`
}

type fixtureException struct {
	Scope       string    `json:"scope"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	EmpleadoIDs []string  `json:"empleado_ids,omitempty"`
	EquipoIDs   []string  `json:"equipo_ids,omitempty"`
	ServicioIDs []string  `json:"servicio_ids,omitempty"`
}

type fixtureScenario struct {
	HorarioAtencionNegocio *fixtureInterval          `json:"horario_atencion_negocio,omitempty"`
	Servicios              map[string]fixtureService `json:"servicios"`
	Empleados              []fixtureEmployee         `json:"empleados"`
	Equipos                []fixtureEquipment        `json:"equipos,omitempty"`
	Ocupaciones            []fixtureOccupation       `json:"ocupaciones,omitempty"`
	OcupacionesEquipo      []fixtureOccupation       `json:"ocupaciones_equipo,omitempty"`
	Excepciones            []fixtureException        `json:"excepciones,omitempty"`
}

type fixtureFile struct {
	Scenarios map[string]fixtureScenario `json:"scenarios"`
}

// FileRepository loads scenarios from a JSON fixture file once at startup
// and serves them from memory.
type FileRepository struct {
	mu        sync.RWMutex
	scenarios map[string]*engine.Scenario
}

// NewFileRepository reads and parses the fixture at path.
func NewFileRepository(path string) (*FileRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario fixture: %w", err)
	}

	var file fixtureFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario fixture JSON: %w", err)
	}

	repo := &FileRepository{scenarios: make(map[string]*engine.Scenario, len(file.Scenarios))}
	for id, fs := range file.Scenarios {
		repo.scenarios[id] = toEngineScenario(id, fs)
	}
	return repo, nil
}

// LoadScenario implements engine.ScenarioRepository.
func (r *FileRepository) LoadScenario(ctx context.Context, id string) (*engine.Scenario, error) {
	if id == "" {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scenarios[id], nil
}

func toEngineScenario(id string, fs fixtureScenario) *engine.Scenario {
	s := &engine.Scenario{
		ID:             id,
		BusinessWindow: fs.HorarioAtencionNegocio.toEngine(),
		Services:       make(map[string]engine.Service, len(fs.Servicios)),
	}

	for key, svc := range fs.Servicios {
		s.Services[key] = engine.Service{
			ID:                       svc.ID,
			DurationMin:              svc.DurationMin,
			BufferBeforeMin:          svc.BufferBeforeMin,
			BufferAfterMin:           svc.BufferAfterMin,
			AttentionWindow:          svc.AttentionWindow.toEngine(),
			CompatibleEquipment:      svc.CompatibleEquipment,
			EquipmentSelectionPolicy: engine.EquipmentSelectionPolicy(svc.EquipmentSelectionPolicy),
		}
	}

	for _, emp := range fs.Empleados {
		s.Employees = append(s.Employees, engine.EmployeeSchedule{
			EmployeeID:        emp.EmployeeID,
			WorkWindow:        engine.NewInterval(emp.WorkWindow[0], emp.WorkWindow[1]),
			AssignedServices:  emp.AssignedServices,
			AssignedEquipment: emp.AssignedEquipment,
		})
	}

	for _, eq := range fs.Equipos {
		s.Equipment = append(s.Equipment, engine.Equipment{
			EquipmentID:     eq.EquipoID,
			OperatingWindow: eq.HorarioOperativo.toEngine(),
		})
	}

	for _, occ := range fs.Ocupaciones {
		s.Occupations = append(s.Occupations, engine.Occupation{
			EmployeeID: occ.EmpleadoID, Start: occ.Inicio, End: occ.Fin,
		})
	}

	for _, occ := range fs.OcupacionesEquipo {
		s.EquipmentOccupations = append(s.EquipmentOccupations, engine.Occupation{
			EquipmentID: occ.EquipoID, Start: occ.Inicio, End: occ.Fin,
		})
	}

	for _, exc := range fs.Excepciones {
		var scope engine.ExceptionScope
		switch exc.Scope {
		case "employee":
			scope = engine.EmployeeScope{EmployeeIDs: exc.EmpleadoIDs}
		case "equipment":
			scope = engine.EquipmentScope{EquipmentIDs: exc.EquipoIDs}
		case "service":
			scope = engine.ServiceScope{ServiceIDs: exc.ServicioIDs}
		default:
			scope = engine.BusinessScope{}
		}
		s.Exceptions = append(s.Exceptions, engine.Exception{Scope: scope, Start: exc.Start, End: exc.End})
	}

	return s
}

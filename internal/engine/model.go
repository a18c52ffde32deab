package engine

import "time"

// WindowPolicy controls whether a service's attention window bounds only
// the service-start instant or the entire buffered slot.
type WindowPolicy string

const (
	StartOnly WindowPolicy = "start_only"
	FullSlot  WindowPolicy = "full_slot"
)

// EquipmentSelectionPolicy chooses how the load-balancing selector resolves
// equipment when the dedup key ignored it.
type EquipmentSelectionPolicy string

const (
	ServiceOrder EquipmentSelectionPolicy = "service_order"
	LeastLoaded  EquipmentSelectionPolicy = "least_loaded"
)

// Service is the bookable unit: a duration, surrounding buffers, an
// optional attention window, and an ordered list of compatible equipment.
type Service struct {
	ID                       string
	DurationMin              int
	BufferBeforeMin          int
	BufferAfterMin           int
	AttentionWindow          *Interval
	CompatibleEquipment      []string
	EquipmentSelectionPolicy EquipmentSelectionPolicy
}

// TotalSlot returns buffer_before + duration + buffer_after.
func (s Service) TotalSlot() int {
	return s.BufferBeforeMin + s.DurationMin + s.BufferAfterMin
}

func (s Service) equipmentPolicy() EquipmentSelectionPolicy {
	if s.EquipmentSelectionPolicy == "" {
		return ServiceOrder
	}
	return s.EquipmentSelectionPolicy
}

// RequiresEquipment reports whether the service declares a compatible
// equipment list at all.
func (s Service) RequiresEquipment() bool {
	return len(s.CompatibleEquipment) > 0
}

// EmployeeSchedule is an employee's work window plus service/equipment
// assignments.
type EmployeeSchedule struct {
	EmployeeID        string
	WorkWindow        Interval
	AssignedServices  []string
	AssignedEquipment []string
}

func (e EmployeeSchedule) assignedToService(serviceID string) bool {
	if len(e.AssignedServices) == 0 {
		return true
	}
	for _, s := range e.AssignedServices {
		if s == serviceID {
			return true
		}
	}
	return false
}

func (e EmployeeSchedule) assignedEquipmentSet() map[string]bool {
	set := make(map[string]bool, len(e.AssignedEquipment))
	for _, eq := range e.AssignedEquipment {
		set[eq] = true
	}
	return set
}

// Equipment is a schedulable resource with an optional operating window;
// when absent, the request window is used instead.
type Equipment struct {
	EquipmentID     string
	OperatingWindow *Interval
}

// Occupation is a pre-existing busy interval sourced from the domain, for
// either an employee or a piece of equipment.
type Occupation struct {
	EmployeeID  string
	EquipmentID string
	Start       time.Time
	End         time.Time
}

// ExceptionScope tags the target class of an Exception or Operational
// Blocking as a closed set of variants rather than a scope string plus a
// dictionary of targets, so scope-dependent semantics stay local to each
// variant.
type ExceptionScope interface {
	isScope()
}

type BusinessScope struct{}

func (BusinessScope) isScope() {}

type EmployeeScope struct{ EmployeeIDs []string }

func (EmployeeScope) isScope() {}

type EquipmentScope struct{ EquipmentIDs []string }

func (EquipmentScope) isScope() {}

type ServiceScope struct{ ServiceIDs []string }

func (ServiceScope) isScope() {}

// Exception is a neutral blocking interval tagged with its scope.
type Exception struct {
	Scope ExceptionScope
	Start time.Time
	End   time.Time
}

// ReservationState is the lifecycle state of a Reservation.
type ReservationState string

const (
	Confirmed         ReservationState = "CONFIRMED"
	Reassigned        ReservationState = "REASSIGNED"
	PendingReschedule ReservationState = "PENDING_RESCHEDULE"
)

// Reservation is a confirmed (or since-reassigned/pending) booking.
type Reservation struct {
	ReservationID string
	ServiceID     string
	EmployeeID    string
	EquipmentID   string // empty when the service does not require equipment
	Start         time.Time
	End           time.Time
	CreatedAt     time.Time
	State         ReservationState
	Version       int
	ScenarioID    string
}

// OperationalBlocking is a persisted blocking applied outside of the
// exception/scenario mechanism, affecting live reservations via the
// cascade manager.
type OperationalBlocking struct {
	ID           string
	Scope        ExceptionScope
	Start        time.Time
	End          time.Time
	Reason       string
	EmployeeIDs  []string
	EquipmentIDs []string
	ServiceIDs   []string
}

// Scenario packages a self-contained fixture that overrides repository
// lookups for the duration of a request.
type Scenario struct {
	ID                   string
	BusinessWindow       *Interval
	Services             map[string]Service
	Employees            []EmployeeSchedule
	Equipment            []Equipment
	Occupations          []Occupation
	EquipmentOccupations []Occupation
	Exceptions           []Exception
}

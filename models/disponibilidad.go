package models

import "time"

// DisponibilidadRequest is the strict wire body for
// POST /api/v1/disponibilidad. Unknown fields are rejected by the strict
// JSON decoder (middleware.DecodeStrict), not by struct tags.
type DisponibilidadRequest struct {
	ServicioID          string     `json:"servicio_id"`
	EmpleadoID          string     `json:"empleado_id,omitempty"`
	EquipoID            string     `json:"equipo_id,omitempty"`
	FechaInicioUTC      time.Time  `json:"fecha_inicio_utc"`
	FechaFinUTC         time.Time  `json:"fecha_fin_utc"`
	ScenarioID          string     `json:"scenario_id,omitempty"`
	ServiceWindowPolicy string     `json:"service_window_policy,omitempty"`
}

// HorarioDisponible is a single slot in a DisponibilidadResponse.
type HorarioDisponible struct {
	InicioSlot         time.Time `json:"inicio_slot"`
	FinSlot            time.Time `json:"fin_slot"`
	EmpleadoIDAsignado string    `json:"empleado_id_asignado,omitempty"`
	EquipoIDAsignado   string    `json:"equipo_id_asignado,omitempty"`
}

// DisponibilidadResponse is the 200 response body.
type DisponibilidadResponse struct {
	HorariosDisponibles []HorarioDisponible `json:"horarios_disponibles"`
}

package models

import "time"

// ReservaRequest is the wire body for POST /api/v1/reservas.
type ReservaRequest struct {
	ServicioID          string    `json:"servicio_id"`
	EmpleadoID          string    `json:"empleado_id,omitempty"`
	EquipoID            string    `json:"equipo_id,omitempty"`
	InicioSlot          time.Time `json:"inicio_slot"`
	FinSlot             time.Time `json:"fin_slot"`
	ScenarioID          string    `json:"scenario_id,omitempty"`
	ServiceWindowPolicy string    `json:"service_window_policy,omitempty"`
}

// ReservaResponse is the 201 response body.
type ReservaResponse struct {
	ReservaID  string    `json:"reserva_id"`
	ServicioID string    `json:"servicio_id"`
	EmpleadoID string    `json:"empleado_id,omitempty"`
	EquipoID   string    `json:"equipo_id,omitempty"`
	Inicio     time.Time `json:"inicio"`
	Fin        time.Time `json:"fin"`
	Estado     string    `json:"estado"`
}

package models

import "time"

// BloqueoRequest is the wire body for POST /api/v1/bloqueos.
type BloqueoRequest struct {
	InicioUTC   time.Time `json:"inicio_utc"`
	FinUTC      time.Time `json:"fin_utc"`
	Motivo      string    `json:"motivo,omitempty"`
	Scope       string    `json:"scope"`
	EmpleadoIDs []string  `json:"empleado_ids,omitempty"`
	EquipoIDs   []string  `json:"equipo_ids,omitempty"`
	ServicioIDs []string  `json:"servicio_ids,omitempty"`
	ScenarioID  string    `json:"scenario_id,omitempty"`
}

// ReservaProcesada is one entry of a BloqueoResponse's procesadas list.
type ReservaProcesada struct {
	ReservaID  string `json:"reserva_id"`
	Estado     string `json:"estado"`
	EmpleadoID string `json:"empleado_id,omitempty"`
	EquipoID   string `json:"equipo_id,omitempty"`
}

// BloqueoResponse is the 201 response body.
type BloqueoResponse struct {
	BloqueoID  string             `json:"bloqueo_id"`
	Procesadas []ReservaProcesada `json:"procesadas"`
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schedulingengine/internal/engine"
	"schedulingengine/middleware"
	"schedulingengine/models"
	"schedulingengine/utils"
)

// CrearReserva handles POST /api/v1/reservas.
func CrearReserva(c *gin.Context) {
	logger := getLogger(c)

	var req models.ReservaRequest
	if err := middleware.DecodeStrict(c.Request.Body, &req); err != nil {
		utils.RespondEngineError(c, err)
		return
	}
	if err := requireUTC(req.InicioSlot, req.FinSlot); err != nil {
		utils.RespondEngineError(c, err)
		return
	}

	reservation, err := Engine.CreateReservation(c.Request.Context(), engine.CreateReservationRequest{
		ServiceID:   req.ServicioID,
		EmployeeID:  req.EmpleadoID,
		EquipmentID: req.EquipoID,
		Start:       req.InicioSlot,
		End:         req.FinSlot,
		ScenarioID:  req.ScenarioID,
		Policy:      engine.WindowPolicy(req.ServiceWindowPolicy),
	})
	if err != nil {
		logger.Warn("reservation creation failed", zap.Error(err))
		utils.RespondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ReservaResponse{
		ReservaID:  reservation.ReservationID,
		ServicioID: reservation.ServiceID,
		EmpleadoID: reservation.EmployeeID,
		EquipoID:   reservation.EquipmentID,
		Inicio:     reservation.Start,
		Fin:        reservation.End,
		Estado:     string(reservation.State),
	})
}

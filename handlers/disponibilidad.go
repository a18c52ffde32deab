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

// BuscarDisponibilidad handles POST /api/v1/disponibilidad.
func BuscarDisponibilidad(c *gin.Context) {
	logger := getLogger(c)

	var req models.DisponibilidadRequest
	if err := middleware.DecodeStrict(c.Request.Body, &req); err != nil {
		utils.RespondEngineError(c, err)
		return
	}
	if err := requireUTC(req.FechaInicioUTC, req.FechaFinUTC); err != nil {
		utils.RespondEngineError(c, err)
		return
	}

	candidates, err := Engine.Search(c.Request.Context(), engine.SearchRequest{
		ServiceID:   req.ServicioID,
		EmployeeID:  req.EmpleadoID,
		EquipmentID: req.EquipoID,
		Start:       req.FechaInicioUTC,
		End:         req.FechaFinUTC,
		ScenarioID:  req.ScenarioID,
		Policy:      engine.WindowPolicy(req.ServiceWindowPolicy),
	})
	if err != nil {
		logger.Warn("availability search failed", zap.Error(err))
		utils.RespondEngineError(c, err)
		return
	}

	resp := models.DisponibilidadResponse{HorariosDisponibles: make([]models.HorarioDisponible, 0, len(candidates))}
	for _, cand := range candidates {
		resp.HorariosDisponibles = append(resp.HorariosDisponibles, models.HorarioDisponible{
			InicioSlot:         cand.Start,
			FinSlot:            cand.End,
			EmpleadoIDAsignado: cand.EmployeeID,
			EquipoIDAsignado:   cand.EquipmentID,
		})
	}

	c.JSON(http.StatusOK, resp)
}

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

// CrearBloqueo handles POST /api/v1/bloqueos.
func CrearBloqueo(c *gin.Context) {
	logger := getLogger(c)

	var req models.BloqueoRequest
	if err := middleware.DecodeStrict(c.Request.Body, &req); err != nil {
		utils.RespondEngineError(c, err)
		return
	}
	if err := requireUTC(req.InicioUTC, req.FinUTC); err != nil {
		utils.RespondEngineError(c, err)
		return
	}

	scope, err := scopeFromString(req.Scope, req.EmpleadoIDs, req.EquipoIDs, req.ServicioIDs)
	if err != nil {
		utils.RespondEngineError(c, err)
		return
	}

	result, err := Engine.CreateBlocking(c.Request.Context(), engine.CreateBlockingRequest{
		Scope:        scope,
		Start:        req.InicioUTC,
		End:          req.FinUTC,
		Reason:       req.Motivo,
		EmployeeIDs:  req.EmpleadoIDs,
		EquipmentIDs: req.EquipoIDs,
		ServiceIDs:   req.ServicioIDs,
		ScenarioID:   req.ScenarioID,
	})
	if err != nil {
		logger.Warn("blocking cascade failed", zap.Error(err))
		utils.RespondEngineError(c, err)
		return
	}

	resp := models.BloqueoResponse{BloqueoID: result.BlockingID, Procesadas: make([]models.ReservaProcesada, 0, len(result.Processed))}
	for _, outcome := range result.Processed {
		resp.Procesadas = append(resp.Procesadas, models.ReservaProcesada{
			ReservaID:  outcome.ReservationID,
			Estado:     string(outcome.State),
			EmpleadoID: outcome.EmployeeID,
			EquipoID:   outcome.EquipmentID,
		})
	}

	c.JSON(http.StatusCreated, resp)
}

func scopeFromString(scope string, employeeIDs, equipmentIDs, serviceIDs []string) (engine.ExceptionScope, error) {
	switch scope {
	case "business":
		return engine.BusinessScope{}, nil
	case "employee":
		return engine.EmployeeScope{EmployeeIDs: employeeIDs}, nil
	case "equipment":
		return engine.EquipmentScope{EquipmentIDs: equipmentIDs}, nil
	case "service":
		return engine.ServiceScope{ServiceIDs: serviceIDs}, nil
	default:
		return nil, engine.NewInvalidScopeError("unrecognized scope: " + scope)
	}
}

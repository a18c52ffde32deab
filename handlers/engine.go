package handlers

import "schedulingengine/internal/engine"

// Engine is the package-level scheduling engine, wired by main.go at
// startup. Handlers read it directly rather than threading it through the
// gin context.
var Engine *engine.Engine

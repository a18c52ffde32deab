package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"schedulingengine/internal/engine"
)

// DecodeStrict decodes the request body into dst, rejecting unknown JSON
// fields. Handlers call this instead of c.ShouldBindJSON so an
// *engine.Error with Kind=UnknownField can be mapped to 422 by
// utils.RespondEngineError.
func DecodeStrict(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return engine.NewUnknownFieldError(err.Error())
		}
		if errors.Is(err, io.EOF) {
			return engine.NewUnknownFieldError("request body is empty")
		}
		return engine.NewUnknownFieldError(err.Error())
	}
	return nil
}

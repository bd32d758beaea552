package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
)

// readJSON decodes the request body into a generic value. Numbers stay as
// json.Number so the schema decides what an acceptable integer is. An empty
// body decodes to nil. A body that is not valid JSON is handed on as
// json.RawMessage, so the payload check reports it after the caller has
// been authorized.
func readJSON(c echo.Context) (any, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return json.RawMessage(raw), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return json.RawMessage(raw), nil
	}
	return v, nil
}

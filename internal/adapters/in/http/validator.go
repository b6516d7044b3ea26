package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"courierdispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"gopkg.in/go-playground/validator.v9"
)

// RequestValidator plugs go-playground/validator into echo.
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator registers the "timeinterval" tag, which accepts strings of the
// form "HH:MM-HH:MM".
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	_ = v.RegisterValidation("timeinterval", func(fl validator.FieldLevel) bool {
		_, err := kernel.ParseTimeInterval(fl.Field().String())
		return err == nil
	})
	return &RequestValidator{validator: v}
}

func (rv *RequestValidator) Validate(i any) error {
	return rv.validator.Struct(i)
}

// StrictJSONSerializer is echo's JSON serializer with unknown fields rejected on input.
type StrictJSONSerializer struct {
	echo.DefaultJSONSerializer
}

func (s StrictJSONSerializer) Deserialize(c echo.Context, i any) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(400, err.Error()).SetInternal(err)
	}
	if err = decodeStrict(body, i); err != nil {
		return echo.NewHTTPError(400, err.Error()).SetInternal(err)
	}
	return nil
}

// decodeStrict decodes one JSON value, rejecting unknown fields and trailing data.
func decodeStrict(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

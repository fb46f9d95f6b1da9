package validation

import (
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo's Validator interface so
// handlers can call c.Validate(req) after binding.
type Validator struct {
	v *validatorv10.Validate
}

func New() *Validator {
	return &Validator{v: validatorv10.New()}
}

func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

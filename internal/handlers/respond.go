package handlers

import "github.com/labstack/echo/v4"

// OK writes the uniform success envelope.
func OK(c echo.Context, code int, data any) error {
	return c.JSON(code, echo.Map{"success": true, "data": data})
}

// Fail writes the uniform error envelope.
func Fail(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"success": false, "message": message})
}

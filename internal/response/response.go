package response

import (
	"github.com/labstack/echo/v4"

	"carrental/internal/errors"
)

// Envelope is the shape of every response body.
type Envelope struct {
	Success bool                  `json:"success"`
	Data    echo.Map              `json:"data,omitempty"`
	Err     *errors.ErrorResponse `json:"err,omitempty"`
}

// Success writes {success:true, data:{message, ...fields}}.
func Success(c echo.Context, status int, message string, fields echo.Map) error {
	data := make(echo.Map, len(fields)+1)
	for k, v := range fields {
		data[k] = v
	}
	data["message"] = message
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// Error writes {success:false, err:{message, error?}}.
func Error(c echo.Context, status int, body errors.ErrorResponse) error {
	return c.JSON(status, Envelope{Success: false, Err: &body})
}

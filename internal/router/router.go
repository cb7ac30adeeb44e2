package router

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"carrental/internal/auth"
	apperrors "carrental/internal/errors"
	"carrental/internal/handler"
	"carrental/internal/response"
	"carrental/internal/validator"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authenticator *auth.Authenticator,
	authHandler *handler.AuthHandler,
	bookingHandler *handler.BookingHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{}
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireAuth := RequireAuth(authenticator)

	// Public routes
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// Secured routes (require bearer token)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	bookings := e.Group("/bookings", requireAuth)
	bookings.POST("", bookingHandler.Create)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.PUT("/:id", bookingHandler.Update)
	bookings.DELETE("/:id", bookingHandler.Delete)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the verified claims under auth.ContextKey.
func RequireAuth(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:     auth.ContextKey,
		TokenLookup:    "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: authenticator.ParseToken,
		ErrorHandler: func(c echo.Context, err error) error {
			// A token was present but failed verification.
			if errors.Is(err, apperrors.ErrInvalidToken) {
				return err
			}
			// No header, or not of the form "Bearer <token>".
			return apperrors.ErrUnauthorized
		},
	})
}

// ErrorHandler renders every error in the {success:false, err:{...}} envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := toErrorResponse(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = response.Error(c, status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func toErrorResponse(err error) (int, apperrors.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		body := apperrors.ErrorResponse{Message: http.StatusText(he.Code)}
		switch msg := he.Message.(type) {
		case string:
			body.Message = msg
		case apperrors.ErrorResponse:
			body = msg
		}
		if he.Code >= http.StatusInternalServerError {
			body = apperrors.ErrorResponse{Message: "internal server error"}
		}
		return he.Code, body
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse()
}

// CustomValidator adapts the shared validator to echo.
type CustomValidator struct{}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return validator.Struct(i)
}

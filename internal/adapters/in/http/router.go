package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/Skym0sh0/in-the-mealtime/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

const BasePath = "/api/v1"

// NewRouter mounts the server under BasePath. Requests are checked against
// the OpenAPI document before they reach a handler; the document itself is
// browsable under /swagger/.
func NewRouter(server servers.ServerInterface, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}

	validator, err := requestValidator(doc, BasePath)
	if err != nil {
		return nil, err
	}

	registerSwaggerDoc(doc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	api := e.Group(BasePath, validator)
	servers.RegisterHandlersWithBaseURL(api, server, "")

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelDebug
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

// requestValidator rejects requests that do not match the operation they are
// routed to. Paths the document does not know fall through to echo's router.
func requestValidator(doc *openapi3.T, basePath string) (echo.MiddlewareFunc, error) {
	routed := *doc
	routed.Servers = nil

	router, err := legacy.NewRouter(&routed)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	options := &openapi3filter.Options{
		MultiError:         true,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			routed := req.Clone(req.Context())
			routed.URL.Path = strings.TrimPrefix(req.URL.Path, basePath)
			routed.URL.RawPath = ""

			route, pathParams, err := router.FindRoute(routed)
			if err != nil {
				return next(c)
			}

			err = openapi3filter.ValidateRequest(req.Context(), &openapi3filter.RequestValidationInput{
				Request:    routed,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			})
			// the body was consumed and replaced on the routed copy
			req.Body = routed.Body
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
			}
			return next(c)
		}
	}, nil
}

func validationMessage(err error) string {
	var multi openapi3.MultiError
	if errors.As(err, &multi) && len(multi) > 0 {
		parts := make([]string, 0, len(multi))
		for _, e := range multi {
			parts = append(parts, firstLine(e.Error()))
		}
		return strings.Join(parts, "; ")
	}
	return firstLine(err.Error())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

var swaggerOnce sync.Once

// registerSwaggerDoc publishes doc for echo-swagger. swag only accepts one
// registration per name.
func registerSwaggerDoc(doc *openapi3.T) {
	swaggerOnce.Do(func() {
		data, err := doc.MarshalJSON()
		if err != nil {
			data = []byte("{}")
		}
		swag.Register(swag.Name, swaggerDoc{json: string(data)})
	})
}

package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const userIDKey = "user_id"

// requireAccessToken admits requests carrying a valid access token in
// "Authorization: Bearer <token>" and stores its subject under userIDKey and
// on the request's log attributes.
func (s *HTTPServer) requireAccessToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Token missing"})
		}

		claims, err := s.codec.Parse(bearerToken(header), s.accessSecret)
		if err != nil || claims.Subject == "" {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Token invalid"})
		}

		c.Set(userIDKey, claims.Subject)
		r := c.Request()
		c.SetRequest(r.WithContext(logging.WithAttrs(r.Context(), "subject", claims.Subject)))
		return next(c)
	}
}

// requireOwner rejects a request whose :id is not the authenticated user.
func requireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, _ := c.Get(userIDKey).(string); id == "" || id != c.Param("id") {
			return c.JSON(http.StatusForbidden, errorResponse{Error: "Access denied"})
		}
		return next(c)
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// observe records the latency of every request by route template.
func (s *HTTPServer) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else {
				status = http.StatusInternalServerError
			}
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(c.Request().Method, route, strconv.Itoa(status), time.Since(start))
		return err
	}
}

func (s *HTTPServer) logRequest(c echo.Context, v middleware.RequestLoggerValues) error {
	ctx := c.Request().Context()
	args := []any{
		"status", v.Status,
		"method", v.Method,
		"uri", v.URI,
		"ip", v.RemoteIP,
		"latency", v.Latency.String(),
	}
	if v.Error != nil {
		s.logger.Warn(ctx, "request", append(args, "error", v.Error.Error())...)
		return nil
	}
	s.logger.Info(ctx, "request", args...)
	return nil
}

package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// reply writes the outcome of a use case. A Left is answered with
// leftStatus, except validation failures which are always 400.
func reply[T any](s *HTTPServer, c echo.Context, res services.Result[T], err error, leftStatus int, onRight func(T) error) error {
	if err != nil {
		return s.internalError(c, err)
	}
	if f, ok := res.Left(); ok {
		return fail(c, leftStatus, f)
	}
	v, _ := res.Right()
	return onRight(v)
}

func fail(c echo.Context, status int, f *common.Failure) error {
	if f.Kind == common.KindValidation {
		status = http.StatusBadRequest
	}
	return c.JSON(status, errorResponse{Error: f.Message})
}

func (s *HTTPServer) internalError(c echo.Context, err error) error {
	logging.LogError(c.Request().Context(), s.logger, "request failed", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
}

func bind(c echo.Context, dst any) *common.Failure {
	if err := c.Bind(dst); err != nil {
		return common.InvalidParam("Invalid request body")
	}
	return nil
}

func (s *HTTPServer) Register(c echo.Context) error {
	var in services.RegisterInput
	if f := bind(c, &in); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}

	res, err := s.svc.Users.Register(c.Request().Context(), in)
	return reply(s, c, res, err, http.StatusBadRequest, func(*models.User) error {
		return c.NoContent(http.StatusCreated)
	})
}

func (s *HTTPServer) Login(c echo.Context) error {
	var in services.LoginInput
	if f := bind(c, &in); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}

	res, err := s.svc.Users.Login(c.Request().Context(), in)
	return reply(s, c, res, err, http.StatusUnauthorized, func(sess *services.Session) error {
		return c.JSON(http.StatusOK, sess)
	})
}

// RefreshToken takes the token from the body, the query string or the
// x-refresh-token header, in that order.
func (s *HTTPServer) RefreshToken(c echo.Context) error {
	var req tokenRequest
	if f := bind(c, &req); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}

	token := firstNonEmpty(req.Token, c.QueryParam(common.RefreshTokenQueryName), c.Request().Header.Get(common.RefreshTokenHeaderName))

	res, err := s.svc.Users.RefreshToken(c.Request().Context(), token)
	return reply(s, c, res, err, http.StatusUnauthorized, func(p *services.TokenPair) error {
		return c.JSON(http.StatusCreated, p)
	})
}

func (s *HTTPServer) SendVerifyEmail(c echo.Context) error {
	var in services.EmailInput
	if f := bind(c, &in); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}

	res, err := s.svc.Verification.SendVerifyEmail(c.Request().Context(), in)
	return reply(s, c, res, err, http.StatusNotFound, func(bool) error {
		return c.NoContent(http.StatusOK)
	})
}

func (s *HTTPServer) VerifyEmail(c echo.Context) error {
	var req tokenRequest
	if f := bind(c, &req); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}

	token := firstNonEmpty(c.QueryParam("token"), req.Token)

	res, err := s.svc.Verification.VerifyEmail(c.Request().Context(), token)
	return reply(s, c, res, err, http.StatusUnauthorized, func(bool) error {
		return c.JSON(http.StatusOK, messageResponse{Message: "The email has been successfully verified"})
	})
}

func (s *HTTPServer) ForgotPassword(c echo.Context) error {
	var in services.EmailInput
	if f := bind(c, &in); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}

	res, err := s.svc.Verification.SendForgotPasswordEmail(c.Request().Context(), in)
	return reply(s, c, res, err, http.StatusNotFound, func(bool) error {
		return c.NoContent(http.StatusOK)
	})
}

func (s *HTTPServer) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if f := bind(c, &req); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}

	token := firstNonEmpty(c.QueryParam("token"), req.Token)
	if strings.TrimSpace(token) == "" {
		return fail(c, http.StatusBadRequest, common.MissingParam("Missing the reset password token on the request query"))
	}

	in := services.ResetPasswordInput{Token: token, Password: req.Password}
	res, err := s.svc.Verification.ResetPassword(c.Request().Context(), in)
	return reply(s, c, res, err, http.StatusUnauthorized, func(bool) error {
		return c.NoContent(http.StatusOK)
	})
}

func (s *HTTPServer) CreateAddress(c echo.Context) error {
	var in services.AddressInput
	if f := bind(c, &in); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}
	in.UserID = c.Param("id")

	res, err := s.svc.Profile.CreateAddress(c.Request().Context(), in)
	return reply(s, c, res, err, http.StatusBadRequest, func(a *models.Address) error {
		return c.JSON(http.StatusCreated, a)
	})
}

func (s *HTTPServer) UpdateAddress(c echo.Context) error {
	var in services.AddressUpdateInput
	if f := bind(c, &in); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}
	in.UserID = c.Param("id")

	res, err := s.svc.Profile.UpdateAddress(c.Request().Context(), in)
	return reply(s, c, res, err, http.StatusBadRequest, func(a *models.Address) error {
		return c.JSON(http.StatusOK, a)
	})
}

func (s *HTTPServer) CreatePhone(c echo.Context) error {
	var in services.PhoneInput
	if f := bind(c, &in); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}
	in.UserID = c.Param("id")

	res, err := s.svc.Profile.CreatePhone(c.Request().Context(), in)
	return reply(s, c, res, err, http.StatusBadRequest, func(p *models.Phone) error {
		return c.JSON(http.StatusCreated, p)
	})
}

func (s *HTTPServer) UpdatePhone(c echo.Context) error {
	var in services.PhoneUpdateInput
	if f := bind(c, &in); f != nil {
		return fail(c, http.StatusBadRequest, f)
	}
	in.UserID = c.Param("id")

	res, err := s.svc.Profile.UpdatePhone(c.Request().Context(), in)
	return reply(s, c, res, err, http.StatusBadRequest, func(p *models.Phone) error {
		return c.JSON(http.StatusOK, p)
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

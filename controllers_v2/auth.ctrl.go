package v2controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/transfersafe/router/lib/responses"
	"github.com/transfersafe/router/lib/security"
	"github.com/transfersafe/router/lib/service"
	"github.com/transfersafe/router/lib/tokens"
)

// AuthController : Wallet login controller struct
type AuthController struct {
	svc *service.RouterService
}

func NewAuthController(svc *service.RouterService) *AuthController {
	return &AuthController{svc: svc}
}

type LoginMessageResponseBody struct {
	Message string `json:"message"`
}

type AuthRequestBody struct {
	Message   string `json:"message" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type AuthResponseBody struct {
	AccessToken string `json:"access_token"`
	Address     string `json:"address"`
}

// LoginMessage godoc
// @Summary      Get a login message
// @Description  Returns the message a wallet has to personal_sign to log in. It is bound to the router's chain id and expires after a few minutes.
// @Accept       json
// @Produce      json
// @Tags         Auth
// @Param        address  query     string  true  "Wallet address"
// @Success      200      {object}  LoginMessageResponseBody
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v2/auth/message [get]
func (controller *AuthController) LoginMessage(c echo.Context) error {
	address, ok := parseAddress(c.QueryParam("address"))
	if !ok {
		return badArguments(c, "address must be a hex encoded account address")
	}
	msg := security.NewLoginMessage(address, controller.svc.Config.ChainID, controller.svc.Now())
	return c.JSON(http.StatusOK, &LoginMessageResponseBody{Message: msg.String()})
}

// Auth godoc
// @Summary      Authenticate
// @Description  Exchanges a signed login message for an access token
// @Accept       json
// @Produce      json
// @Tags         Auth
// @Param        AuthRequestBody  body      AuthRequestBody  true  "Signed login message"
// @Success      200              {object}  AuthResponseBody
// @Failure      400              {object}  responses.ErrorResponse
// @Failure      401              {object}  responses.ErrorResponse
// @Failure      500              {object}  responses.ErrorResponse
// @Router       /v2/auth [post]
func (controller *AuthController) Auth(c echo.Context) error {
	var body AuthRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load auth request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid auth request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	cfg := controller.svc.Config
	maxAge := time.Duration(cfg.LoginMessageMaxAge) * time.Second
	login, err := security.VerifyLogin(body.Message, body.Signature, cfg.ChainID, maxAge, controller.svc.Now())
	if err != nil {
		c.Logger().Infof("Rejected login: %v", err)
		return badAuth(c)
	}
	// a nonce has to be remembered for as long as its message is accepted
	fresh, err := controller.svc.NonceStore.Use(c.Request().Context(), login.Nonce, maxAge+2*time.Minute)
	if err != nil {
		return err
	}
	if !fresh {
		c.Logger().Infof("Rejected replayed login nonce for %s", login.Address.Hex())
		return badAuth(c)
	}

	accessToken, err := tokens.GenerateAccessToken(cfg.JWTSecret, cfg.JWTAccessTokenExpiry, login.Address, cfg.ChainID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &AuthResponseBody{
		AccessToken: accessToken,
		Address:     login.Address.Hex(),
	})
}

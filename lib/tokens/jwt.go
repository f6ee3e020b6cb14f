package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/lib/responses"
)

var ErrInvalidToken = errors.New("invalid access token")

type jwtCustomClaims struct {
	Address string `json:"address"`
	ChainID int64  `json:"chainId"`

	jwt.StandardClaims
}

// GenerateAccessToken : Generate Access Token
func GenerateAccessToken(secret []byte, expiryInSeconds int, address ethcommon.Address, chainID int64) (string, error) {
	now := time.Now()
	claims := &jwtCustomClaims{
		Address: address.Hex(),
		ChainID: chainID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Second * time.Duration(expiryInSeconds)).Unix(),
			Subject:   address.Hex(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return t, nil
}

// ParseAccessToken verifies the token and returns the address it was issued to.
func ParseAccessToken(secret []byte, chainID int64, tokenString string) (ethcommon.Address, error) {
	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return ethcommon.Address{}, ErrInvalidToken
	}
	if claims.ChainID != chainID || !ethcommon.IsHexAddress(claims.Address) {
		return ethcommon.Address{}, ErrInvalidToken
	}
	return ethcommon.HexToAddress(claims.Address), nil
}

// Middleware authenticates "Authorization: Bearer <token>" and stores the caller address in the context.
func Middleware(secret []byte, chainID int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, tokenString, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				return c.JSON(responses.BadAuthError.HttpStatusCode, responses.BadAuthError)
			}
			address, err := ParseAccessToken(secret, chainID, tokenString)
			if err != nil {
				c.Logger().Debugf("Rejected access token: %v", err)
				return c.JSON(responses.BadAuthError.HttpStatusCode, responses.BadAuthError)
			}
			c.Set(common.ContextKeyAddress, address)
			return next(c)
		}
	}
}

// CallerAddress returns the address Middleware authenticated.
func CallerAddress(c echo.Context) (ethcommon.Address, bool) {
	address, ok := c.Get(common.ContextKeyAddress).(ethcommon.Address)
	return address, ok
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"bookwell/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Identity resolves the authenticated customer from a bearer token and
// places the verified email (plus optional name and phone claims) on the
// request context. Everything downstream treats the email as the stable
// customer identifier.
func Identity(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}
			email, ok := claims["sub"].(string)
			if !ok || email == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing subject in token")
			}

			ctx := context.WithValue(c.Request().Context(), common.CustomerEmailKey, email)
			if name, ok := claims["name"].(string); ok {
				ctx = context.WithValue(ctx, common.CustomerNameKey, name)
			}
			if phone, ok := claims["phone"].(string); ok {
				ctx = context.WithValue(ctx, common.CustomerPhoneKey, phone)
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/montasim/school-management-backend-sub003/api/transport"
)

// JWTAuth verifies the bearer token and attaches the admin id claim as
// the request's principal id. Token issuance happens out of band; this
// middleware only trusts the claim. A missing or unverifiable token is a
// 401; whether the admin actually exists is the usecase's 403 check.
func JWTAuth(secret string, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				writeFailure(ctx, http.StatusUnauthorized, "missing authorization token")
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				writeFailure(ctx, http.StatusUnauthorized, "invalid authorization token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeFailure(ctx, http.StatusUnauthorized, "invalid authorization token")
				return
			}
			adminID, _ := claims["admin_id"].(string)
			if adminID == "" {
				writeFailure(ctx, http.StatusUnauthorized, "token carries no admin id")
				return
			}

			ctx.SetUserValue(transport.CtxKeyPrincipalID, adminID)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

package middleware

import (
	"errors"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/internal/token"
)

// IdentityKey is the request-scoped user value under which the verified
// claim set is attached. It never survives beyond the request.
const IdentityKey = "identity"

// Auth verifies the bearer credential on every request and attaches the
// resolved identity to the request context. Verification is pure CPU work;
// the profile store is never consulted here.
func Auth(codec *token.Codec, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			credential := extractBearer(ctx)
			if credential == "" {
				unauthorized(ctx, domain.ErrCodeUnauthorized, "missing credential")
				return
			}

			identity, err := codec.Verify(credential)
			if err != nil {
				code, message := domain.ErrCodeUnauthorized, "invalid credential"
				var dErr *domain.Error
				if errors.As(err, &dErr) {
					code, message = dErr.Code, dErr.Message
				}
				logger.Warn("credential rejected",
					zap.String("code", string(code)),
					zap.Error(err))
				unauthorized(ctx, code, message)
				return
			}

			ctx.SetUserValue(IdentityKey, identity)
			next(ctx)
		}
	}
}

// IdentityFrom returns the claim set attached by Auth, or nil on public routes.
func IdentityFrom(ctx *fasthttp.RequestCtx) *domain.Identity {
	identity, _ := ctx.UserValue(IdentityKey).(*domain.Identity)
	return identity
}

func extractBearer(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func unauthorized(ctx *fasthttp.RequestCtx, code domain.ErrorCode, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBodyString(`{"status":"error","code":"` + string(code) + `","error":"` + message + `"}`)
}

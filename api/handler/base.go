package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ElSocialismo/plataforma-freelancer/api/transport"
	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func mapError(err error) (int, string) {
	for _, m := range errorMappings {
		if domain.IsDomainError(err, m.code) {
			return m.status, string(m.code)
		}
	}
	return http.StatusInternalServerError, string(domain.ErrCodeInternal)
}

// Stable status per error kind; clients rely on these to pick between
// re-login, retry and hard failure.
var errorMappings = []struct {
	code   domain.ErrorCode
	status int
}{
	{domain.ErrCodeTokenSignature, http.StatusUnauthorized},
	{domain.ErrCodeTokenMalformed, http.StatusUnauthorized},
	{domain.ErrCodeTokenExpired, http.StatusUnauthorized},
	{domain.ErrCodeUnauthorized, http.StatusUnauthorized},
	{domain.ErrCodeProviderRejected, http.StatusUnauthorized},
	{domain.ErrCodeProviderUnreachable, http.StatusBadGateway},
	{domain.ErrCodeForbidden, http.StatusForbidden},
	{domain.ErrCodeInvalid, http.StatusBadRequest},
	{domain.ErrCodeNotFound, http.StatusNotFound},
	{domain.ErrCodeConflict, http.StatusConflict},
	{domain.ErrCodeProfileMismatch, http.StatusConflict},
	{domain.ErrCodeConcurrencyConflict, http.StatusConflict},
	{domain.ErrCodeIrreconcilable, http.StatusUnprocessableEntity},
	{domain.ErrCodeUnsupportedMedia, http.StatusUnsupportedMediaType},
	{domain.ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
	{domain.ErrCodeStorageFailure, http.StatusInternalServerError},
}

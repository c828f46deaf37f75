package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ElSocialismo/plataforma-freelancer/api/transport"
	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/internal/middleware"
	"github.com/ElSocialismo/plataforma-freelancer/pkg/httpcontext"
	reconcileUC "github.com/ElSocialismo/plataforma-freelancer/usecase/reconcile"
)

type ProfileHandler struct {
	baseHandler
	uc *reconcileUC.UseCase
}

func NewProfileHandler(uc *reconcileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get the reconciled unified profile
// @Tags profile
// @Success 200 {object} transport.Envelope
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing identity", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Reconcile(stdCtx, identity.Subject)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if result.Profile == nil {
		h.respondError(ctx, domain.ErrProfileNotFound)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

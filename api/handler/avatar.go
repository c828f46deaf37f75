package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ElSocialismo/plataforma-freelancer/api/transport"
	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/internal/middleware"
	"github.com/ElSocialismo/plataforma-freelancer/pkg/httpcontext"
	avatarUC "github.com/ElSocialismo/plataforma-freelancer/usecase/avatar"
)

type AvatarHandler struct {
	baseHandler
	uc *avatarUC.UseCase
}

func NewAvatarHandler(uc *avatarUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AvatarHandler {
	return &AvatarHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Replace the caller's avatar
// @Tags profile
// @Accept octet-stream
// @Router /api/v1/profile/avatar [put]
func (h *AvatarHandler) Update(ctx *fasthttp.RequestCtx) {
	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing identity", nil))
		return
	}

	body := ctx.PostBody()

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ref, err := h.uc.Update(stdCtx, identity.Subject, body)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.AvatarResponse{AvatarRef: ref})
}

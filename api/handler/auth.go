package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ElSocialismo/plataforma-freelancer/api/transport"
	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/pkg/httpcontext"
	authUC "github.com/ElSocialismo/plataforma-freelancer/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Begin a provider login
// @Tags auth
// @Router /api/v1/auth/{provider}/login [get]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	providerName, _ := ctx.UserValue("provider").(string)
	if providerName == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing provider", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	authURL, state, err := h.uc.BeginLogin(stdCtx, providerName)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.LoginStartResponse{
		AuthURL: authURL,
		State:   state,
	})
}

// @Summary Complete a provider login and issue a credential
// @Tags auth
// @Router /api/v1/auth/{provider}/callback [get]
func (h *AuthHandler) Callback(ctx *fasthttp.RequestCtx) {
	providerName, _ := ctx.UserValue("provider").(string)
	state := string(ctx.QueryArgs().Peek("state"))
	code := string(ctx.QueryArgs().Peek("code"))
	if providerName == "" || state == "" || code == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing state or code", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	credential, identity, err := h.uc.CompleteLogin(stdCtx, providerName, state, code)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.CredentialResponse{
		Credential: credential,
		TokenType:  "Bearer",
		ExpiresAt:  identity.ExpiresAt,
		Identity:   identity,
	})
}

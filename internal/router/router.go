package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/ElSocialismo/plataforma-freelancer/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Avatar  *apiHandler.AvatarHandler
	Health  *apiHandler.HealthHandler
}

// Middleware wraps a fasthttp handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New wires the route table. Login and callback routes are public; everything
// under the profile surface requires a verified credential.
func New(handlers Handlers, auth Middleware, cors Middleware) *router.Router {
	r := router.New()

	public := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return cors(h)
	}
	protected := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return cors(auth(h))
	}

	r.GET("/health", public(handlers.Health.Check))

	// Login flow
	r.GET("/api/v1/auth/{provider}/login", public(handlers.Auth.Login))
	r.GET("/api/v1/auth/{provider}/callback", public(handlers.Auth.Callback))

	// Protected routes
	r.GET("/api/v1/profile", protected(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile/avatar", protected(handlers.Avatar.Update))

	return r
}

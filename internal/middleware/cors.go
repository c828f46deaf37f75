package middleware

import "github.com/valyala/fasthttp"

// CORS sets the allowed-origin headers and answers preflight requests.
func CORS(allowedOrigin string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			ctx.Response.Header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

			if string(ctx.Method()) == fasthttp.MethodOptions {
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}

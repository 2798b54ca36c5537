package server

import (
	"net/http"

	"github.com/iudanet/userkeeper/internal/server/handlers"
	"github.com/iudanet/userkeeper/internal/server/middleware"
)

// APIPrefix общий префикс маршрутов API
const APIPrefix = "/api/v1"

const healthPath = APIPrefix + "/utils/health-check/"

func (s *Server) routes(resolver middleware.TokenResolver) http.Handler {
	authH := handlers.NewAuthHandler(s.logger, s.users)
	usersH := handlers.NewUsersHandler(s.logger, s.users)
	healthH := handlers.NewHealthHandler(s.logger, s.store)

	authn := middleware.Authenticate(s.logger, resolver)
	protected := func(h http.HandlerFunc) http.Handler {
		return authn(h)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		return s.limiter.Middleware(h)
	}

	mux := http.NewServeMux()

	// Login
	mux.Handle("POST "+APIPrefix+"/login/access-token", limited(authH.Login))
	mux.Handle("POST "+APIPrefix+"/login/test-token", protected(authH.TestToken))
	mux.Handle("POST "+APIPrefix+"/password-recovery/{email}", limited(authH.RecoverPassword))
	mux.Handle("POST "+APIPrefix+"/reset-password/{$}", limited(authH.ResetPassword))

	// Users
	mux.Handle("GET "+APIPrefix+"/users/{$}", protected(usersH.List))
	mux.Handle("POST "+APIPrefix+"/users/{$}", protected(usersH.Create))
	mux.HandleFunc("POST "+APIPrefix+"/users/signup", usersH.Signup)
	mux.Handle("GET "+APIPrefix+"/users/me", protected(usersH.Me))
	mux.Handle("PATCH "+APIPrefix+"/users/me", protected(usersH.UpdateMe))
	mux.Handle("DELETE "+APIPrefix+"/users/me", protected(usersH.DeleteMe))
	mux.Handle("PATCH "+APIPrefix+"/users/me/password", protected(usersH.UpdatePassword))
	mux.Handle("GET "+APIPrefix+"/users/{user_id}", protected(usersH.Get))
	mux.Handle("PATCH "+APIPrefix+"/users/{user_id}", protected(usersH.Update))
	mux.Handle("DELETE "+APIPrefix+"/users/{user_id}", protected(usersH.Delete))

	// Utils
	mux.HandleFunc("GET "+healthPath+"{$}", healthH.Health)

	var h http.Handler = mux
	h = middleware.LoggingWithSkip(s.logger, []string{healthPath})(h)
	h = middleware.RecoveryMiddleware(s.logger)(h)

	return h
}

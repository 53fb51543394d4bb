package controllers

import (
	"net/http"

	"github.com/fieldops/fieldops-pos/api/middleware"
	"github.com/fieldops/fieldops-pos/api/responses"
)

// Whoami echoes the identity the bearer token resolved to.
func Whoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"operator_id": middleware.OperatorIDFromContext(r.Context()),
			"terminal_id": middleware.TerminalIDFromContext(r.Context()),
			"role":        middleware.RoleFromContext(r.Context()),
		})
	}
}

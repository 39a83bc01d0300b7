package middleware

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	"github.com/hseworks/picatrack/pkg/composables"
)

const actorIDHeader = "X-Actor-ID"

// ActorFromHeader resolves the authenticated actor announced by the upstream
// authentication collaborator. The core never validates credentials; it
// trusts the already-verified identity header and loads the actor record to
// learn the organization and role. Requests without the header proceed
// unauthenticated.
func ActorFromHeader(actors actor.Repository) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(actorIDHeader)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := strconv.ParseUint(header, 10, 64)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			a, err := actors.GetByID(r.Context(), uint(id))
			if err != nil {
				composables.UseLogger(r.Context()).
					WithError(err).
					WithField("actor_id", id).
					Warn("failed to resolve actor header")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(composables.WithActor(r.Context(), a)))
		})
	}
}

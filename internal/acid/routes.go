package acid

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the weak acid endpoints onto the given router
// under the /acid prefix.
func RegisterRoutes(r chi.Router) {
	r.Route("/acid", func(r chi.Router) {
		r.Post("/ph", SolvePH)
		r.Post("/ph/batch", SolveBatch)
	})
}

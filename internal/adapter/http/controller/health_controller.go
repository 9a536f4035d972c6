package controller

import "net/http"

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

func (c *HealthController) RegisterRoutes(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
	mux.Handle("/", http.HandlerFunc(c.root))
}

// root answers the service-alive greeting. The "/" pattern is the mux
// fallback, so anything that is not the root path is a 404 here.
func (c *HealthController) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "MikaBank API funcionando!",
	})
}

package healthz

import (
	"io"
	"net/http"
)

var _ http.Handler = (*Registry)(nil)

// ServeHTTP responds with 200 OK if all checks succeed,
// otherwise with 500 Internal Server Error. The body lists
// the state of every check.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ok, info := r.HealthInfo()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if ok {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	io.WriteString(w, info)
}

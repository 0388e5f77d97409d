package handlers

import "net/http"

// HandleHealthz reports liveness for deployment probes.
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

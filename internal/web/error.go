package web

import "net/http"

// httpError writes a plain-text error body with the given status code,
// the Go analogue of the Rust source's ResponseError(StatusCode,
// anyhow::Error): every handler path funnels its failure through here so
// the status/body pairing stays in one place.
func httpError(w http.ResponseWriter, status int, err error) {
	http.Error(w, err.Error(), status)
}

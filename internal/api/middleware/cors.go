package middleware

import "net/http"

// CORS allows browser clients from any origin to call the API and read the
// token header.
func CORS() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST, PUT, DELETE")
			h.Set("Access-Control-Allow-Headers", "auth-token, Origin, X-Requested-With, Content-Type, Accept")
			h.Set("Access-Control-Expose-Headers", TokenHeader)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

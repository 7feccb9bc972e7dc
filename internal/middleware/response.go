package middleware

import (
	"net/http"

	"github.com/reelmatch/reelmatch-server-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

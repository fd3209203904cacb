package quill

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Handler serves the merged editor config as {"data": config}. GET and HEAD
// only; ?readOnly=true sets the read-only flag.
func Handler(fns ...OptionFn) http.Handler {
	return configHandler(NewOptions(fns...))
}

func configHandler(opts Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
		default:
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		config := Merge(opts)
		config.ReadOnly, _ = strconv.ParseBool(r.URL.Query().Get("readOnly"))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = json.NewEncoder(w).Encode(struct {
			Data EditorConfig `json:"data"`
		}{config})
	})
}

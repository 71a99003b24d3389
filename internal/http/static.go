package httpapi

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// StaticHandler serves the built client from dir. Paths that do not name a file
// fall back to index.html so client-side routes resolve.
func StaticHandler(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)
	index := filepath.Join(dir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		if f, err := root.Open(path.Clean("/" + r.URL.Path)); err == nil {
			stat, statErr := f.Stat()
			_ = f.Close()
			if statErr == nil && !stat.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}

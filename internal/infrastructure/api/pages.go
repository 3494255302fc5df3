package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"skyutilities-dashboard/internal/infrastructure/session"

	"github.com/rs/zerolog"
)

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Page not found</title></head>
<body><h1>404</h1><p>The page you are looking for does not exist.</p><p><a href="/">Back to SkyUtilities</a></p></body>
</html>
`

// notFoundHandler answers JSON under /api and an HTML page elsewhere
func notFoundHandler(staticDir string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("404")

		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeMessage(w, http.StatusNotFound, "Not found")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		if staticDir != "" {
			if page, err := os.ReadFile(filepath.Join(staticDir, "not_found.html")); err == nil {
				w.Write(page)
				return
			}
		}
		w.Write([]byte(notFoundPage))
	}
}

// staticHandler serves the dashboard pages, falling back to the 404 page for missing files
func staticHandler(staticDir string, notFound http.Handler) http.HandlerFunc {
	files := http.FileServer(http.Dir(staticDir))
	return func(w http.ResponseWriter, r *http.Request) {
		if staticDir == "" {
			notFound.ServeHTTP(w, r)
			return
		}
		name := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err != nil || (info.IsDir() && !hasIndex(name)) {
			notFound.ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}

// dashboardPageHandler sends operators without a session to login before serving page
func dashboardPageHandler(staticDir, page string, sessions *session.CookieStore, notFound http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sessions.HasSession(r) {
			http.Redirect(w, r, "/login/discord", http.StatusFound)
			return
		}
		path := filepath.Join(staticDir, page)
		if _, err := os.Stat(path); staticDir == "" || err != nil {
			notFound.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

func hasIndex(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "index.html"))
	return err == nil
}

package handler

import (
	"mime"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/forgo/folio/internal/middleware"
)

// Routes holds every handler the API serves
type Routes struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Users      *UserHandler
	Pages      *PageHandler
	Posts      *PostHandler
	Products   *ProductHandler
	Categories *CategoryHandler
	Contents   *ContentHandler
	Menus      *MenuHandler
	Media      *MediaHandler
	Settings   *SettingsHandler

	// AuthLimiter throttles login and registration; nil disables throttling
	AuthLimiter *middleware.RateLimiter

	// UploadsDir, when set, is served read-only under /uploads/
	UploadsDir string
}

// Register mounts all routes on mux
func (rt *Routes) Register(mux *http.ServeMux) {
	// Health check endpoint
	mux.HandleFunc("GET /health", rt.Health.Health)

	// Auth endpoints
	throttle := func(h http.HandlerFunc) http.Handler {
		if rt.AuthLimiter == nil {
			return h
		}
		return middleware.RateLimit(rt.AuthLimiter)(h)
	}
	mux.Handle("POST /v1/auth/register", throttle(rt.Auth.Register))
	mux.Handle("POST /v1/auth/login", throttle(rt.Auth.Login))
	mux.HandleFunc("POST /v1/auth/logout", rt.Auth.Logout)
	mux.Handle("GET /v1/auth/me", requireIdentity(rt.Auth.Me))

	// User administration
	mux.Handle("GET /v1/users", requireIdentity(rt.Users.List))
	mux.Handle("PATCH /v1/users/{id}/role", requireIdentity(rt.Users.UpdateRole))

	// Slugged collections
	rt.Pages.RegisterRoutes(mux)
	rt.Posts.RegisterRoutes(mux)
	rt.Products.RegisterRoutes(mux)
	rt.Categories.RegisterRoutes(mux)
	rt.Contents.RegisterRoutes(mux)

	// Menus
	mux.HandleFunc("GET /v1/menus", rt.Menus.List)
	mux.HandleFunc("GET /v1/menus/{id}", rt.Menus.Get)
	mux.HandleFunc("GET /v1/menus/location/{location}", rt.Menus.GetByLocation)
	mux.Handle("POST /v1/menus", requireIdentity(rt.Menus.Create))
	mux.Handle("PATCH /v1/menus/{id}", requireIdentity(rt.Menus.Update))
	mux.Handle("DELETE /v1/menus/{id}", requireIdentity(rt.Menus.Delete))

	// Media
	mux.HandleFunc("GET /v1/media", rt.Media.List)
	mux.HandleFunc("GET /v1/media/{id}", rt.Media.Get)
	mux.Handle("POST /v1/media", requireIdentity(rt.Media.Upload))
	mux.Handle("PATCH /v1/media/{id}", requireIdentity(rt.Media.Update))
	mux.Handle("DELETE /v1/media/{id}", requireIdentity(rt.Media.Delete))

	// Site settings
	mux.HandleFunc("GET /v1/settings", rt.Settings.Get)
	mux.Handle("PUT /v1/settings", requireIdentity(rt.Settings.Update))

	if rt.UploadsDir != "" {
		mux.Handle("GET /uploads/", uploadsHandler(rt.UploadsDir))
	}
}

func requireIdentity(h http.HandlerFunc) http.Handler {
	return middleware.RequireIdentity(h)
}

// uploadsHandler serves the local upload directory. Uploaded bytes come from
// arbitrary users, so responses forbid sniffing and run in a sandbox, and
// anything that is not image, audio or video is sent as a download.
func uploadsHandler(dir string) http.Handler {
	files := http.StripPrefix("/uploads/", http.FileServer(noDirListing{http.Dir(dir)}))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "sandbox; default-src 'none'; img-src 'self'; media-src 'self'")
		if !inlineMedia(path.Ext(r.URL.Path)) {
			h.Set("Content-Disposition", "attachment")
		}
		files.ServeHTTP(w, r)
	})
}

// inlineMedia reports whether files with ext may render in the browser
func inlineMedia(ext string) bool {
	mimeType := mime.TypeByExtension(strings.ToLower(ext))
	if mimeType == "" || strings.Contains(mimeType, "xml") {
		return false
	}
	return strings.HasPrefix(mimeType, "image/") ||
		strings.HasPrefix(mimeType, "audio/") ||
		strings.HasPrefix(mimeType, "video/")
}

// noDirListing hides directory indexes from the uploads file server
type noDirListing struct {
	fs http.FileSystem
}

func (n noDirListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

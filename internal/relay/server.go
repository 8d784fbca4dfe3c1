package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ralt/webapt/internal/apt"
	"github.com/ralt/webapt/internal/models"
	"github.com/sirupsen/logrus"
)

// Server exposes the relay and the parsing API over HTTP
type Server struct {
	config  *models.Config
	fetcher *Fetcher
	router  chi.Router
}

// NewServer creates a Server and registers its routes
func NewServer(config *models.Config, fetcher *Fetcher) *Server {
	s := &Server{config: config, fetcher: fetcher}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)
	r.Use(allowAnyOrigin)

	r.Get("/", s.handleIndex)
	r.Get("/config", s.handleConfig)
	r.Get("/proxy", s.handleProxy)
	r.Get("/api/release", s.handleRelease)
	r.Get("/api/packages", s.handlePackages)
	r.Get("/api/packages-url", s.handlePackagesURL)
	r.Get("/api/dists", s.handleDists)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(config.StaticDir))))

	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Listening on %s", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logrus.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.config.TemplateDir, "index.html"))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"APTREPO": s.config.DefaultRepo})
}

// handleProxy relays the document at ?url= as text, keeping the upstream status
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "Missing url parameter")
		return
	}

	doc, err := s.fetcher.Fetch(r.Context(), target)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(doc.StatusCode)
	w.Write(doc.Body)
}

type releaseResponse struct {
	URL           string        `json:"url"`
	Fields        *apt.FieldMap `json:"fields"`
	Architectures []string      `json:"architectures"`
	Components    []string      `json:"components"`
	Dists         []string      `json:"dists"`
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "Missing url parameter")
		return
	}

	content, err := s.fetcher.FetchText(r.Context(), target)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	rel := apt.ParseRelease(content)
	arches, _ := rel.Architectures()
	comps, _ := rel.Components()
	writeJSON(w, http.StatusOK, releaseResponse{
		URL:           target,
		Fields:        rel.Fields,
		Architectures: nonNil(arches),
		Components:    nonNil(comps),
		Dists:         nonNil(rel.Dists()),
	})
}

type versionView struct {
	Version     string `json:"version"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
}

type groupView struct {
	Name     string        `json:"name"`
	Versions []versionView `json:"versions"`
}

type packagesResponse struct {
	URL        string      `json:"url"`
	Groups     []groupView `json:"groups"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	Matched    int         `json:"matched"`
	Total      int         `json:"total"`
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := q.Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "Missing url parameter")
		return
	}

	query := apt.Query{
		Search:     q.Get("q"),
		SortField:  apt.ParseSortField(q.Get("sort")),
		Descending: q.Get("dir") == "desc",
		Page:       atoiDefault(q.Get("page"), 1),
		PageSize:   atoiDefault(q.Get("page_size"), apt.DefaultPageSize),
	}

	repoBase := q.Get("base")
	if repoBase == "" {
		repoBase = apt.RepoBase(target)
	}

	content, err := s.fetcher.FetchText(r.Context(), target)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	page := apt.Paginate(apt.ParsePackages(content), query)

	resp := packagesResponse{
		URL:        target,
		Groups:     make([]groupView, 0, len(page.Groups)),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Matched:    page.Matched,
		Total:      page.Total,
	}
	for _, group := range page.Groups {
		view := groupView{Name: group.Name}
		for _, pkg := range group.Versions {
			view.Versions = append(view.Versions, versionView{
				Version:     pkg.Version,
				Filename:    pkg.Filename,
				DownloadURL: apt.DownloadURL(repoBase, pkg.Filename),
			})
		}
		resp.Groups = append(resp.Groups, view)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePackagesURL(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	base, codename, component, arch := q.Get("base"), q.Get("codename"), q.Get("component"), q.Get("arch")
	if base == "" || codename == "" || component == "" || arch == "" {
		writeError(w, http.StatusBadRequest, "base, codename, component and arch are required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url": apt.BuildPackagesURL(base, codename, component, arch),
	})
}

func (s *Server) handleDists(w http.ResponseWriter, r *http.Request) {
	repoURL := r.URL.Query().Get("repo")
	if repoURL == "" {
		repoURL = s.config.DefaultRepo
	}
	if repoURL == "" {
		writeError(w, http.StatusBadRequest, "Missing repo parameter")
		return
	}

	repo, err := Discover(r.Context(), s.fetcher, repoURL, s.config.DefaultDist)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, repo)
}

// writeFetchError maps a fetch failure to a JSON error response
func writeFetchError(w http.ResponseWriter, err error) {
	var webaptErr *models.WebAPTError
	if !errors.As(err, &webaptErr) {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching from repository: %v", err))
		return
	}

	switch webaptErr.Type {
	case models.ErrDecompress:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error decompressing %s: %v", webaptErr.URL, webaptErr.Err))
	case models.ErrUpstreamStatus:
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Error fetching from repository: %s: %v", webaptErr.URL, webaptErr.Err))
	default:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching from repository: %v", webaptErr.Err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("Failed to encode response: %v", err)
	}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Package web serves the scene lists as a JSON API with a small static
// front end.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"shellmenu/internal/analysis"
	"shellmenu/internal/menu"
	"shellmenu/internal/model"
	"shellmenu/internal/report"
	"shellmenu/internal/selection"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// Server answers API requests against one selection.
type Server struct {
	Loader   *menu.Loader
	Sel      *selection.State
	Analyzer *analysis.Engine
	Logger   *log.Logger

	// mu serializes loads and selection writes across requests.
	mu sync.Mutex
}

// NewServer returns a server; analyzer may be nil.
func NewServer(ld *menu.Loader, sel *selection.State, analyzer *analysis.Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{Loader: ld, Sel: sel, Analyzer: analyzer, Logger: logger}
}

// Handler routes the static files and the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/entries", s.handleEntries)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/select", s.handleSelect)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/help", handleHelp)
	return mux
}

// ListenAndServe serves on localhost:port until the listener fails.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf("localhost:%d", port)
	fmt.Printf("Starting shellmenu web server at http://%s\n", addr)
	s.Logger.Info("web server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type sceneInfo struct {
	Name      model.Scene `json:"name"`
	Title     string      `json:"title"`
	Supported bool        `json:"supported"`
	Refinable bool        `json:"refinable"`
	Label     string      `json:"label,omitempty"`
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.Loader.Catalog()
	out := make([]sceneInfo, 0, len(model.AllScenes))
	for _, sc := range model.AllScenes {
		info := sceneInfo{Name: sc, Title: sc.Title(), Supported: c.Supported(sc), Refinable: sc.Refinable()}
		if info.Refinable {
			info.Label = s.Sel.Label(sc)
		}
		out = append(out, info)
	}
	writeJSON(w, out)
}

type entriesResponse struct {
	Scene    model.Scene    `json:"scene"`
	BasePath string         `json:"basePath,omitempty"`
	Entries  []*model.Entry `json:"entries"`
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	scene, err := model.ParseScene(r.URL.Query().Get("scene"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.Loader.Load(scene, s.Sel)
	base, _ := s.Loader.Catalog().ResolveBasePath(scene, s.Sel)
	if list == nil {
		list = model.List{}
	}
	writeJSON(w, entriesResponse{Scene: scene, BasePath: base, Entries: list})
}

type analyzeResponse struct {
	Path       string            `json:"path"`
	Candidates []model.Candidate `json:"candidates"`
	Labels     []string          `json:"labels"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	if s.Analyzer == nil {
		http.Error(w, "analysis is not available", http.StatusNotImplemented)
		return
	}
	path = model.ExpandTilde(path)
	s.mu.Lock()
	s.Sel.SetAnalysisTarget(path)
	s.mu.Unlock()

	res := analyzeResponse{Path: path, Candidates: s.Analyzer.Analyze(path)}
	if res.Candidates == nil {
		res.Candidates = []model.Candidate{}
	}
	for _, c := range res.Candidates {
		res.Labels = append(res.Labels, menu.JumpLabel(c))
	}
	writeJSON(w, res)
}

type selectRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
	// Candidate activates an analysis result instead of a field write.
	Candidate *model.Candidate `json:"candidate,omitempty"`
}

type selectResponse struct {
	Scene model.Scene `json:"scene"`
	Label string      `json:"label"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var scene model.Scene
	if req.Candidate != nil {
		if s.Analyzer == nil {
			http.Error(w, "analysis is not available", http.StatusNotImplemented)
			return
		}
		var err error
		if scene, err = s.Analyzer.Activate(*req.Candidate, s.Sel); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		f, err := selection.ParseField(req.Field)
		if err == nil {
			_, err = s.Sel.Set(f, req.Value)
		}
		if err != nil {
			status := http.StatusBadRequest
			if !isUserError(err) {
				status = http.StatusInternalServerError
			}
			http.Error(w, err.Error(), status)
			return
		}
		scene = f.Scene()
	}
	s.Logger.Debug("selection written", "scene", scene)
	writeJSON(w, selectResponse{Scene: scene, Label: s.Sel.Label(scene)})
}

func isUserError(err error) bool {
	return errors.Is(err, selection.ErrUnknownField) ||
		errors.Is(err, selection.ErrUnknownPerceivedType) ||
		errors.Is(err, selection.ErrUnknownDirectoryType)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var scenes []model.Scene
	if name := r.URL.Query().Get("scene"); name != "" {
		sc, err := model.ParseScene(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scenes = []model.Scene{sc}
	}
	s.mu.Lock()
	res := report.Collect(s.Loader, s.Sel, scenes)
	s.mu.Unlock()

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, report.Generate(res, r.URL.Query().Get("verbose") != ""))
		return
	}
	writeJSON(w, res)
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)
	w.Header().Set("Content-Type", "text/markdown")
	_, _ = w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

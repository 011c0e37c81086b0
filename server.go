package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bodul/xwedit/internal/hints"
	"github.com/bodul/xwedit/internal/xword"
)

const (
	maxBoardSide  = 64
	maxClueLength = 200
	maxHints      = 20
)

// HintSource suggests words for a pattern such as "H?L?O".
type HintSource interface {
	Name() string
	Lookup(ctx context.Context, pattern string, limit int) ([]hints.Hint, error)
}

// rateLimiter is a simple per-IP token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
	}
	// Cleanup stale entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, b := range rl.visitors {
				if time.Since(b.lastSeen) > 5*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: time.Now()}
		return true
	}

	// Refill tokens based on elapsed time.
	elapsed := time.Since(b.lastSeen)
	refill := int(elapsed / rl.interval)
	if refill > 0 {
		b.tokens += refill * rl.rate
		if b.tokens > rl.rate {
			b.tokens = rl.rate
		}
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Server is the main HTTP server.
type Server struct {
	mux      *http.ServeMux
	store    *Store
	hints    []HintSource
	sse      *Broadcaster
	createRL *rateLimiter
	editRL   *rateLimiter
	log      *slog.Logger
}

// NewServer creates a configured HTTP server. Hint sources are queried in
// order.
func NewServer(store *Store, sources ...HintSource) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		store:    store,
		hints:    sources,
		sse:      NewBroadcaster(),
		createRL: newRateLimiter(10, time.Minute), // 10 boards/min per IP
		editRL:   newRateLimiter(60, time.Second), // 60 edits/sec per IP
		log:      slog.Default().With("component", "server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/boards", s.handleCreateBoard)
	s.mux.HandleFunc("GET /api/boards", s.handleListBoards)
	s.mux.HandleFunc("GET /api/boards/{id}", s.handleGetBoard)
	s.mux.HandleFunc("DELETE /api/boards/{id}", s.handleDeleteBoard)
	s.mux.HandleFunc("GET /api/boards/{id}/dump", s.handleDump)

	s.mux.HandleFunc("POST /api/boards/{id}/join", s.handleJoin)
	s.mux.HandleFunc("POST /api/boards/{id}/cells", s.handleMutate)
	s.mux.HandleFunc("PUT /api/boards/{id}/clues", s.handleSetClue)
	s.mux.HandleFunc("POST /api/boards/{id}/fill", s.handleFill)
	s.mux.HandleFunc("GET /api/boards/{id}/hints", s.handleHints)
	s.mux.HandleFunc("GET /api/boards/{id}/events", s.handleEvents)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Board handlers ---

// POST /api/boards: create a blank board.
func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	if !s.createRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	var req struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	if req.Width < 1 || req.Height < 1 || req.Width > maxBoardSide || req.Height > maxBoardSide {
		jsonError(w, "Dimensions invalides (1 à "+strconv.Itoa(maxBoardSide)+")", http.StatusBadRequest)
		return
	}

	board, err := s.store.CreateBoard(req.Width, req.Height)
	if err != nil {
		s.engineError(w, err)
		return
	}
	s.log.Info("board created", "board", board.ID, "width", req.Width, "height", req.Height)

	writeJSON(w, http.StatusCreated, board.Snapshot())
}

// GET /api/boards: list all boards.
func (s *Server) handleListBoards(w http.ResponseWriter, _ *http.Request) {
	boards := s.store.ListBoards()
	list := make([]BoardSnapshot, 0, len(boards))
	for _, b := range boards {
		list = append(list, b.Snapshot())
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /api/boards/{id}: get a single board.
func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board := s.board(w, r)
	if board == nil {
		return
	}
	writeJSON(w, http.StatusOK, board.Snapshot())
}

// DELETE /api/boards/{id}: discard a board.
func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteBoard(id) {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}
	s.sse.BroadcastEvent(id, map[string]string{"type": "board_deleted"})
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/boards/{id}/dump: plain text board and word lists.
func (s *Server) handleDump(w http.ResponseWriter, r *http.Request) {
	board := s.board(w, r)
	if board == nil {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(board.Dump()))
}

// --- Editing handlers ---

// POST /api/boards/{id}/join: join a board with a name.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	board := s.board(w, r)
	if board == nil {
		return
	}

	var req struct {
		Editor string `json:"editor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Editor == "" {
		jsonError(w, "Champ 'editor' requis", http.StatusBadRequest)
		return
	}

	name := sanitizeName(req.Editor)
	if name == "" {
		jsonError(w, "Nom invalide", http.StatusBadRequest)
		return
	}

	editor := board.AddEditor(name)
	s.sse.BroadcastEvent(board.ID, map[string]string{
		"type":   "editor_joined",
		"editor": editor.Name,
		"color":  editor.Color,
	})

	writeJSON(w, http.StatusOK, editor)
}

// POST /api/boards/{id}/cells: set one cell to a letter, "" to erase or "#" to block.
func (s *Server) handleMutate(w http.ResponseWriter, r *http.Request) {
	if !s.editRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	board := s.board(w, r)
	if board == nil {
		return
	}

	var req struct {
		Editor string `json:"editor"`
		X      int    `json:"x"`
		Y      int    `json:"y"`
		Value  string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	value, err := xword.ParseValue(strings.TrimSpace(req.Value))
	if err != nil {
		jsonError(w, "Valeur invalide : une lettre A-Z, vide ou #", http.StatusBadRequest)
		return
	}

	pos := xword.Position{X: req.X, Y: req.Y}
	if err := board.Mutate(pos, value); err != nil {
		s.engineError(w, err)
		return
	}

	s.sse.BroadcastEvent(board.ID, map[string]any{
		"type":   "cell_update",
		"x":      req.X,
		"y":      req.Y,
		"value":  cellString(value),
		"editor": sanitizeName(req.Editor),
	})

	w.WriteHeader(http.StatusNoContent)
}

type spanRequest struct {
	Orientation string         `json:"orientation"`
	Start       xword.Position `json:"start"`
	End         xword.Position `json:"end"`
}

func (req spanRequest) parse() (xword.Span, xword.Orientation, error) {
	o, err := xword.ParseOrientation(req.Orientation)
	if err != nil {
		return xword.Span{}, o, err
	}
	span, err := xword.NewSpan(req.Start, req.End)
	return span, o, err
}

// PUT /api/boards/{id}/clues: set the clue of a word.
func (s *Server) handleSetClue(w http.ResponseWriter, r *http.Request) {
	if !s.editRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	board := s.board(w, r)
	if board == nil {
		return
	}

	var req struct {
		spanRequest
		Editor string `json:"editor"`
		Clue   string `json:"clue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	span, o, err := req.parse()
	if err != nil {
		jsonError(w, "Mot invalide", http.StatusBadRequest)
		return
	}
	clue := strings.TrimSpace(req.Clue)
	if utf8.RuneCountInString(clue) > maxClueLength {
		jsonError(w, "Définition trop longue", http.StatusBadRequest)
		return
	}

	if err := board.SetClue(span, o, clue); err != nil {
		s.engineError(w, err)
		return
	}

	s.sse.BroadcastEvent(board.ID, map[string]any{
		"type":        "clue_update",
		"orientation": o.String(),
		"start":       span.Start,
		"end":         span.End,
		"clue":        clue,
		"editor":      sanitizeName(req.Editor),
	})

	w.WriteHeader(http.StatusNoContent)
}

// POST /api/boards/{id}/fill: write a whole word, usually a picked hint.
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	if !s.editRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	board := s.board(w, r)
	if board == nil {
		return
	}

	var req struct {
		spanRequest
		Editor string `json:"editor"`
		Word   string `json:"word"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	span, o, err := req.parse()
	if err != nil {
		jsonError(w, "Mot invalide", http.StatusBadRequest)
		return
	}

	if err := board.FillWord(span, o, req.Word); err != nil {
		s.engineError(w, err)
		return
	}

	s.sse.BroadcastEvent(board.ID, map[string]any{
		"type":        "word_fill",
		"orientation": o.String(),
		"start":       span.Start,
		"end":         span.End,
		"word":        xword.Fold(req.Word),
		"editor":      sanitizeName(req.Editor),
	})

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/boards/{id}/hints?x=&y=&orientation=: candidate words for the
// word through a cell.
func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	board := s.board(w, r)
	if board == nil {
		return
	}

	q := r.URL.Query()
	x, errX := strconv.Atoi(q.Get("x"))
	y, errY := strconv.Atoi(q.Get("y"))
	o, errO := xword.ParseOrientation(q.Get("orientation"))
	if errX != nil || errY != nil || errO != nil {
		jsonError(w, "Paramètres 'x', 'y' et 'orientation' requis", http.StatusBadRequest)
		return
	}

	ref, ok, err := board.WordAt(xword.Position{X: x, Y: y}, o)
	if err != nil {
		s.engineError(w, err)
		return
	}
	if !ok {
		jsonError(w, "Case noire", http.StatusBadRequest)
		return
	}

	pattern := hints.Pattern(ref.Word.Values)
	writeJSON(w, http.StatusOK, map[string]any{
		"span":    ref.Span,
		"pattern": pattern,
		"clue":    ref.Word.Clue,
		"hints":   s.lookupHints(r.Context(), pattern),
	})
}

// lookupHints merges the answers of every source, first source first.
// A failing source is logged and skipped.
func (s *Server) lookupHints(ctx context.Context, pattern string) []hints.Hint {
	merged := []hints.Hint{}
	seen := make(map[string]bool)
	for _, src := range s.hints {
		if len(merged) >= maxHints {
			break
		}
		found, err := src.Lookup(ctx, pattern, maxHints-len(merged))
		if err != nil {
			s.log.Warn("hint lookup failed", "source", src.Name(), "pattern", pattern, "error", err)
			continue
		}
		for _, h := range found {
			if seen[h.Word] {
				continue
			}
			seen[h.Word] = true
			merged = append(merged, h)
		}
	}
	return merged
}

// GET /api/boards/{id}/events: SSE stream.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	board := s.board(w, r)
	if board == nil {
		return
	}

	editorName := sanitizeName(r.URL.Query().Get("editor"))

	s.sse.ServeSSE(w, r, board.ID, func(c *client) {
		// Send the current board on connect.
		evt, _ := json.Marshal(map[string]any{
			"type":  "board_state",
			"board": board.Snapshot(),
		})
		c.ch <- string(evt)
	}, func() {
		// On disconnect: broadcast editor_left if a name was provided.
		if editorName != "" {
			board.RemoveEditor(editorName)
			s.sse.BroadcastEvent(board.ID, map[string]string{
				"type":   "editor_left",
				"editor": editorName,
			})
		}
	})
}

// --- Helpers ---

// board resolves the {id} path value, writing a 404 when it is unknown.
func (s *Server) board(w http.ResponseWriter, r *http.Request) *Board {
	board := s.store.GetBoard(r.PathValue("id"))
	if board == nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
	}
	return board
}

// engineError maps engine errors to HTTP responses.
func (s *Server) engineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xword.ErrOutOfBounds):
		jsonError(w, "Position hors limites", http.StatusBadRequest)
	case errors.Is(err, xword.ErrInvalidTransition):
		jsonError(w, "Case déjà noire", http.StatusBadRequest)
	case errors.Is(err, xword.ErrInvalidValue):
		jsonError(w, "Valeur invalide", http.StatusBadRequest)
	case errors.Is(err, xword.ErrInvalidDimensions):
		jsonError(w, "Dimensions invalides", http.StatusBadRequest)
	case errors.Is(err, xword.ErrNotFound):
		jsonError(w, "Mot introuvable", http.StatusNotFound)
	default:
		s.log.Error("engine failure", "error", err)
		jsonError(w, "Erreur interne", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeName(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 20 {
		s = string([]rune(s)[:20])
	}
	return s
}

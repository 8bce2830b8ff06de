package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hangman/internal/game"
	"hangman/internal/hangman"
	"hangman/internal/viewmodel"
	"hangman/views/components"
	"hangman/views/pages"
)

const sessionCookieName = "hangman_session"

// GameHandler serves the single-player board. Each browser gets its own game,
// tracked by a cookie.
type GameHandler struct {
	store   *game.Store
	cfg     hangman.Config
	ttl     time.Duration
	logger  *slog.Logger
	limiter *rateLimiter
}

// Options configure a GameHandler.
type Options struct {
	Game           hangman.Config
	SessionTTL     time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}

func NewGameHandler(store *game.Store, logger *slog.Logger, opts Options) *GameHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameHandler{
		store:   store,
		cfg:     opts.Game,
		ttl:     opts.SessionTTL,
		logger:  logger,
		limiter: newRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
	}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.gamePage)
	r.Post("/new", h.newGame)
	r.With(h.limiter.middleware).Post("/guess/{letter}", h.guess)
	r.Get("/board", h.boardFragment)
}

// RegisterStream mounts the SSE endpoint. It is kept apart from RegisterRoutes
// so it can sit outside request timeouts.
func (h *GameHandler) RegisterStream(r chi.Router) {
	r.Get("/stream", h.stream)
}

func (h *GameHandler) gamePage(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.currentGame(r)
	if !ok {
		var err error
		instance, err = h.startGame(w)
		if err != nil {
			h.logger.Error("create game", "error", err)
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}
	}
	snapshot := instance.Snapshot(time.Now().UTC())
	render(w, r, pages.GamePage(viewmodel.GamePage{
		Title: "Hangman",
		Board: buildBoard(snapshot),
	}))
}

func (h *GameHandler) newGame(w http.ResponseWriter, r *http.Request) {
	if instance, ok := h.currentGame(r); ok {
		h.store.RemoveGame(instance.ID)
	}
	if _, err := h.startGame(w); err != nil {
		h.logger.Error("create game", "error", err)
		http.Error(w, "failed to create game", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *GameHandler) guess(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.currentGame(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	letter := chi.URLParam(r, "letter")
	now := time.Now().UTC()
	changed := instance.Guess(letter, now)
	snapshot := instance.Snapshot(now)
	h.logger.Debug("guess", "game", instance.ID, "letter", letter, "changed", changed, "status", snapshot.Status)
	if changed {
		if snapshot.Status == hangman.StatusWon {
			h.logger.Info("game won", "game", instance.ID)
			h.store.WakeDeadlineLoop(instance.ID)
		}
		h.store.Publish(instance.ID, game.EventBoard)
	}
	if r.Header.Get("Hx-Request") == "true" {
		render(w, r, components.Board(buildBoard(snapshot)))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *GameHandler) boardFragment(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.currentGame(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	render(w, r, components.Board(buildBoard(instance.Snapshot(time.Now().UTC()))))
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.currentGame(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub, ok := h.store.Broadcaster(instance.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	sendBoard := func() {
		snapshot := instance.Snapshot(time.Now().UTC())
		writeSSE(w, game.EventBoard, renderToString(r, components.Board(buildBoard(snapshot))))
		flusher.Flush()
	}

	sendBoard()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				// Game discarded.
				return
			}
			if event == game.EventBoard {
				sendBoard()
			}
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func (h *GameHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *GameHandler) startGame(w http.ResponseWriter) (*game.Game, error) {
	instance, err := h.store.CreateGame(h.cfg)
	if err != nil {
		return nil, err
	}
	setSessionCookie(w, instance.ID, h.ttl)
	return instance, nil
}

func (h *GameHandler) currentGame(r *http.Request) (*game.Game, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return h.store.GetGame(cookie.Value)
}

func setSessionCookie(w http.ResponseWriter, gameID string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    gameID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

func buildBoard(snapshot game.Snapshot) viewmodel.Board {
	letters := make([]viewmodel.LetterButton, 0, len(snapshot.Alphabet))
	for _, letter := range snapshot.Alphabet {
		letters = append(letters, viewmodel.LetterButton{
			Letter:  letter,
			Guessed: snapshot.Guessed[letter],
		})
	}
	finished := snapshot.Status != hangman.StatusInProgress
	return viewmodel.Board{
		Status:       string(snapshot.Status),
		StatusText:   statusText(snapshot.Status),
		MaskedWord:   snapshot.MaskedWord,
		Word:         snapshot.Word,
		Letters:      letters,
		Finished:     finished,
		HasTimer:     snapshot.HasTimer && !finished,
		DeadlineMs:   snapshot.Deadline.UnixMilli(),
		RemainingSec: int((snapshot.Remaining + time.Second - 1) / time.Second),
	}
}

func statusText(status hangman.Status) string {
	switch status {
	case hangman.StatusWon:
		return "You won!"
	case hangman.StatusLost:
		return "Time is up."
	default:
		return "Pick a letter."
	}
}

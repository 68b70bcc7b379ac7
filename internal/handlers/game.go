package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vancomm/boomsweeper/internal/config"
	"github.com/vancomm/boomsweeper/internal/middleware"
	"github.com/vancomm/boomsweeper/internal/mines"
	"github.com/vancomm/boomsweeper/internal/scores"
	"github.com/vancomm/boomsweeper/internal/session"
)

type GameHandler struct {
	logger   *slog.Logger
	registry *session.Registry
	best     *scores.BestTimes
	cookies  *config.Cookies
	ws       *config.WebSocket
}

func NewGameHandler(
	logger *slog.Logger,
	registry *session.Registry,
	best *scores.BestTimes,
	cookies *config.Cookies,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		registry: registry,
		best:     best,
		cookies:  cookies,
		ws:       ws,
	}
}

// session finds the game the request's cookie points at.
func (g GameHandler) session(r *http.Request) (*session.Session, error) {
	claims, ok := middleware.SessionClaims(r.Context())
	if !ok {
		return nil, ErrNoSession
	}
	return g.registry.Get(claims.SessionID)
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.logger, err, "unable to parse new game query")
		return
	}

	s, err := g.registry.Create(r.Context(), dto.Difficulty)
	if err != nil {
		sendError(w, g.logger, err, "unable to create session")
		return
	}

	if claims, ok := middleware.SessionClaims(r.Context()); ok {
		g.registry.Remove(claims.SessionID)
	}

	if err := g.cookies.Issue(w, s.ID); err != nil {
		g.registry.Remove(s.ID)
		sendError(w, g.logger, err, "unable to issue session cookie")
		return
	}

	sendJSONOrLog(w, g.logger, s.View())
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, err := g.session(r)
	if err != nil {
		sendError(w, g.logger, err, "unable to fetch session")
		return
	}
	s.Touch()
	sendJSONOrLog(w, g.logger, s.View())
}

func (g GameHandler) Act(w http.ResponseWriter, r *http.Request) {
	kind, err := session.ParseKind(r.PathValue("action"))
	if err != nil {
		sendError(w, g.logger, err, "unable to parse action")
		return
	}

	action, err := ParseAction(kind, r.URL.Query())
	if err != nil {
		sendError(w, g.logger, err, "unable to parse action query")
		return
	}

	s, err := g.session(r)
	if err != nil {
		sendError(w, g.logger, err, "unable to fetch session")
		return
	}

	view, err := s.Apply(r.Context(), action)
	if err != nil {
		sendError(w, g.logger, err, "unable to apply action")
		return
	}

	sendJSONOrLog(w, g.logger, view)
}

func (g GameHandler) Best(w http.ResponseWriter, r *http.Request) {
	difficulty := r.PathValue("difficulty")
	seconds, ok, err := g.best.Get(r.Context(), difficulty)
	if err != nil {
		sendError(w, g.logger, err, "unable to load best time")
		return
	}
	dto := BestTimeDTO{Difficulty: difficulty}
	if ok {
		dto.Seconds = &seconds
	}
	sendJSONOrLog(w, g.logger, dto)
}

func (g GameHandler) BestAll(w http.ResponseWriter, r *http.Request) {
	all := make([]BestTimeDTO, 0, len(mines.Difficulties))
	for _, d := range mines.Difficulties {
		seconds, ok, err := g.best.Get(r.Context(), d.Name)
		if err != nil {
			sendError(w, g.logger, err, "unable to load best times")
			return
		}
		dto := BestTimeDTO{Difficulty: d.Name}
		if ok {
			dto.Seconds = &seconds
		}
		all = append(all, dto)
	}
	sendJSONOrLog(w, g.logger, all)
}

// End drops the caller's session and its cookie.
func (g GameHandler) End(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionClaims(r.Context())
	if !ok {
		sendError(w, g.logger, ErrNoSession, "no session to end")
		return
	}
	if !g.registry.Remove(claims.SessionID) {
		g.logger.Debug("ending unknown session", slog.String("session", claims.SessionID.String()))
	}
	g.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

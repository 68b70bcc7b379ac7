package app

import (
	"github.com/vancomm/boomsweeper/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.logger, a.registry, a.best, a.cookies, a.ws,
	)

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game", game.Fetch)
	a.router.HandleFunc("DELETE /game", game.End)
	a.router.HandleFunc("POST /game/{action}", game.Act)
	a.router.HandleFunc("GET /game/connect", game.Connect)
	a.router.HandleFunc("GET /best", game.BestAll)
	a.router.HandleFunc("GET /best/{difficulty}", game.Best)
}

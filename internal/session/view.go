package session

import (
	"github.com/google/uuid"

	"github.com/vancomm/boomsweeper/internal/mines"
)

// View is everything a renderer needs to draw a session.
type View struct {
	ID              uuid.UUID        `json:"id"`
	Difficulty      mines.Difficulty `json:"difficulty"`
	Status          mines.Status     `json:"status"`
	Lives           int              `json:"lives"`
	Flags           int              `json:"flags"`
	Hints           int              `json:"hints"`
	SafeClicks      int              `json:"safe_clicks"`
	MinesLeft       int              `json:"mines_left"`
	HintArmed       bool             `json:"hint_armed"`
	ManualPlacement bool             `json:"manual_placement"`
	Cheat           bool             `json:"cheat"`
	Clock           mines.Clock      `json:"clock"`
	BestTime        *int             `json:"best_time,omitempty"`
	Undos           int              `json:"undos"`
	Grid            mines.Grid       `json:"grid"`
}

func (s *Session) view() View {
	g := s.game
	v := View{
		ID:              s.ID,
		Difficulty:      g.Difficulty,
		Status:          g.Status(),
		Lives:           g.Lives,
		Flags:           g.Flags,
		Hints:           g.Hints,
		SafeClicks:      g.SafeClicks,
		MinesLeft:       g.MinesLeft,
		HintArmed:       g.HintArmed,
		ManualPlacement: g.ManualPlacement,
		Cheat:           s.cheat,
		Clock:           g.Clock(),
		Undos:           s.history.Len(),
		Grid:            g.PlayerGrid(),
	}
	if s.cheat {
		v.Grid = g.RevealedGrid()
	}
	if s.bestTime != nil {
		best := *s.bestTime
		v.BestTime = &best
	}
	return v
}

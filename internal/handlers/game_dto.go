package handlers

import (
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/boomsweeper/internal/mines"
	"github.com/vancomm/boomsweeper/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type NewGameDTO struct {
	Difficulty string `schema:"difficulty"`
}

func ParseNewGameDTO(src url.Values) (NewGameDTO, error) {
	var dto NewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return dto, err
	}
	if dto.Difficulty == "" {
		dto.Difficulty = mines.Easy.Name
	}
	return dto, nil
}

type ActionDTO struct {
	Row        *int   `schema:"row"`
	Col        *int   `schema:"col"`
	Difficulty string `schema:"difficulty"`
}

// ParseAction decodes the query of a move of the given kind.
func ParseAction(kind session.Kind, src url.Values) (session.Action, error) {
	var dto ActionDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return session.Action{}, err
	}
	a := session.Action{Kind: kind, Difficulty: dto.Difficulty}
	if kind.TargetsCell() {
		if dto.Row == nil || dto.Col == nil {
			return a, mines.Errorf("%s needs row and col", kind)
		}
		a.Row, a.Col = *dto.Row, *dto.Col
	}
	if kind == session.ChangeDifficulty && dto.Difficulty == "" {
		return a, mines.Errorf("%s needs a difficulty", kind)
	}
	return a, nil
}

type BestTimeDTO struct {
	Difficulty string `json:"difficulty"`
	Seconds    *int   `json:"seconds"`
}

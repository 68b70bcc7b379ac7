package session

import "github.com/vancomm/boomsweeper/internal/mines"

type Kind string

const (
	Reveal           Kind = "reveal"
	Flag             Kind = "flag"
	Hint             Kind = "hint"
	ArmHint          Kind = "arm-hint"
	SafeClick        Kind = "safe-click"
	Paint            Kind = "paint"
	Manual           Kind = "manual"
	SevenBoom        Kind = "seven-boom"
	Undo             Kind = "undo"
	Reset            Kind = "reset"
	ChangeDifficulty Kind = "difficulty"
	Cheat            Kind = "cheat"
)

var kinds = []Kind{
	Reveal, Flag, Hint, ArmHint, SafeClick, Paint,
	Manual, SevenBoom, Undo, Reset, ChangeDifficulty, Cheat,
}

func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", mines.Errorf("unknown action %q", s)
}

// TargetsCell reports whether the action needs Row and Col.
func (k Kind) TargetsCell() bool {
	switch k {
	case Reveal, Flag, Hint, Paint:
		return true
	default:
		return false
	}
}

// Action is one player input. Row and Col are used by cell actions,
// Difficulty by ChangeDifficulty.
type Action struct {
	Kind       Kind
	Row, Col   int
	Difficulty string
}

package handlers

import (
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/boomsweeper/internal/mines"
	"github.com/vancomm/boomsweeper/internal/session"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 2,
	"h": 2,
	"p": 2,
	"a": 0,
	"s": 0,
	"m": 0,
	"7": 0,
	"u": 0,
	"n": 0,
	"d": 1,
	"c": 0,
}

var commandKinds = map[string]session.Kind{
	"o": session.Reveal,
	"f": session.Flag,
	"h": session.Hint,
	"p": session.Paint,
	"a": session.ArmHint,
	"s": session.SafeClick,
	"m": session.Manual,
	"7": session.SevenBoom,
	"u": session.Undo,
	"n": session.Reset,
	"d": session.ChangeDifficulty,
	"c": session.Cheat,
}

func iterBySep(s string, sep string) iter.Seq[string] {
	return func(yield func(string) bool) {
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if piece = strings.TrimSpace(piece); piece == "" {
				continue
			}
			if !yield(piece) {
				return
			}
		}
	}
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = mines.Errorf("row must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = mines.Errorf("col must be an int")
		return
	}
	return
}

// parseCommand turns one line like "o 3 4" into an action. The "g" command
// only asks for the current view and yields ok == false.
func parseCommand(c string) (a session.Action, ok bool, err error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return a, false, mines.Errorf("empty command")
	}

	nargs, known := commandNargs[parts[0]]
	if !known {
		return a, false, mines.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return a, false, mines.Errorf("%q takes %d arguments", parts[0], nargs)
	}
	if parts[0] == "g" {
		return a, false, nil
	}

	a.Kind = commandKinds[parts[0]]
	switch nargs {
	case 1:
		a.Difficulty = parts[1]
	case 2:
		if a.Row, a.Col, err = parseRowCol(parts[1:]); err != nil {
			return a, false, err
		}
	}
	return a, true, nil
}

package mines

import "fmt"

type Difficulty struct {
	Name       string `json:"name"`
	Side       int    `json:"side"`
	Mines      int    `json:"mines"`
	Lives      int    `json:"lives"`
	Hints      int    `json:"hints"`
	SafeClicks int    `json:"safe_clicks"`
}

var (
	Easy   = Difficulty{Name: "easy", Side: 8, Mines: 12, Lives: 1, Hints: 1, SafeClicks: 1}
	Medium = Difficulty{Name: "medium", Side: 12, Mines: 30, Lives: 3, Hints: 3, SafeClicks: 3}
	Hard   = Difficulty{Name: "hard", Side: 16, Mines: 64, Lives: 5, Hints: 5, SafeClicks: 5}
)

var Difficulties = []Difficulty{Easy, Medium, Hard}

func LookupDifficulty(name string) (Difficulty, error) {
	for _, d := range Difficulties {
		if d.Name == name {
			return d, nil
		}
	}
	return Difficulty{}, ArgumentError{fmt.Sprintf("unknown difficulty %q", name)}
}

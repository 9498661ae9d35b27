package scoring

import (
	"sort"

	"github.com/mcoot/dicegame-go/internal/model"
)

// faces maps each category to the die face it counts
var faces = map[model.Category]int{
	model.CategoryOnes:   1,
	model.CategoryTwos:   2,
	model.CategoryThrees: 3,
	model.CategoryFours:  4,
	model.CategoryFives:  5,
	model.CategorySixes:  6,
}

// Score returns the value of the dice for a category: the number of dice
// showing the category's face, multiplied by that face. Unknown categories
// and unrolled (zero) dice score nothing.
func Score(category model.Category, dice [model.DiceCount]int) int {
	face, ok := faces[category]
	if !ok {
		return 0
	}
	total := 0
	for _, d := range dice {
		if d == face {
			total += face
		}
	}
	return total
}

// Standing is one player's position in a room's score table
type Standing struct {
	Username string
	Total    int
}

// Standings ranks the room's players by total score, highest first.
// Ties keep join order.
func Standings(room *model.Room) []Standing {
	standings := make([]Standing, 0, len(room.Players))
	for _, p := range room.Players {
		total := 0
		if room.Turn != nil {
			total = room.Turn.Scores[p].Total()
		}
		standings = append(standings, Standing{Username: p, Total: total})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})
	return standings
}

// Winners returns every player sharing the top total once the game is over,
// or nil while it is still in progress
func Winners(room *model.Room) []string {
	if room.Turn == nil || !room.Turn.GameOver {
		return nil
	}
	standings := Standings(room)
	if len(standings) == 0 {
		return nil
	}
	var winners []string
	for _, st := range standings {
		if st.Total != standings[0].Total {
			break
		}
		winners = append(winners, st.Username)
	}
	return winners
}

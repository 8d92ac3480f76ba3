package brackets

import "github.com/Dosada05/cricket-scorer/models"

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// NextSlot maps a match's position in its round to the position of the
// next-round match it feeds and the side its winner takes there.
func NextSlot(indexInRound int) (int, Side) {
	if indexInRound%2 == 0 {
		return indexInRound / 2, SideA
	}
	return indexInRound / 2, SideB
}

// IndexInRound is the 0-based position of matchID among matches of one
// round ordered by creation, or -1.
func IndexInRound(round []*models.Match, matchID int) int {
	for i, m := range round {
		if m.ID == matchID {
			return i
		}
	}
	return -1
}

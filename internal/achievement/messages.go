package achievement

import (
	"fmt"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

// Announcement is shown to the player after a round.
type Announcement struct {
	Text        string               `json:"text"`
	Achievement domain.AchievementID `json:"achievement,omitempty"`
	Rank        domain.Rank          `json:"rank,omitempty"`
}

// Announce builds announcements for unlocked achievements and a rank promotion.
func Announce(unlocked []domain.Achievement, from, to domain.Rank) []Announcement {
	out := make([]Announcement, 0, len(unlocked)+1)
	for _, a := range unlocked {
		out = append(out, Announcement{
			Text:        fmt.Sprintf("%s 解锁成就「%s」: %s", a.Icon, a.Name, a.Description),
			Achievement: a.ID,
		})
	}
	if from != to && to.Ordinal() > from.Ordinal() {
		out = append(out, Announcement{
			Text: fmt.Sprintf("晋升为%s (%s)!", to, to.EnglishName()),
			Rank: to,
		})
	}
	return out
}

package model

import (
	"time"

	"github.com/harusports/teamsite/internal/domain/scoring"
)

// GameResult records the outcome of one game. OurScore and OpponentScore
// are denormalized totals; the service recomputes them from InningScores
// on every save and never trusts caller input.
type GameResult struct {
	ID            string                `json:"id"`
	Date          time.Time             `json:"date"`
	OurTeamName   string                `json:"ourTeamName"`
	Opponent      string                `json:"opponent"`
	InningScores  []scoring.InningScore `json:"inningScores"`
	OurScore      int                   `json:"ourScore"`
	OpponentScore int                   `json:"opponentScore"`
	Location      string                `json:"location,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

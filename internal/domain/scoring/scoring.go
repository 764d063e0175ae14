// Package scoring computes game result totals from per-inning scores.
package scoring

// DefaultInnings is the number of innings a new score sheet starts with.
const DefaultInnings = 9

// InningScore holds one inning's score pair. A nil score means "not yet
// entered" and is distinct from an explicit 0; aggregation treats both
// as 0 but the stored sequence preserves the difference.
type InningScore struct {
	Inning   int  `json:"inning"`
	Our      *int `json:"ourScore"`
	Opponent *int `json:"opponentScore"`
}

// Totals holds the summed scores for both sides.
type Totals struct {
	Our      int `json:"ourScore"`
	Opponent int `json:"opponentScore"`
}

// Aggregate sums the innings present in the sequence. Unset scores count
// as 0. Pure and total; there is no cross-inning validation.
func Aggregate(innings []InningScore) Totals {
	var t Totals
	for _, s := range innings {
		if s.Our != nil {
			t.Our += *s.Our
		}
		if s.Opponent != nil {
			t.Opponent += *s.Opponent
		}
	}
	return t
}

// NewScoreSheet returns DefaultInnings unset innings numbered 1..N.
func NewScoreSheet() []InningScore {
	return emptyInnings(DefaultInnings)
}

func emptyInnings(n int) []InningScore {
	innings := make([]InningScore, n)
	for i := range innings {
		innings[i] = InningScore{Inning: i + 1}
	}
	return innings
}

// Append returns the sequence with one extra unset inning at the end,
// numbered len+1 so the sequence stays dense.
func Append(innings []InningScore) []InningScore {
	out := make([]InningScore, len(innings), len(innings)+1)
	copy(out, innings)
	return append(out, InningScore{Inning: len(innings) + 1})
}

// RemoveLast returns the sequence without its last inning. Removal from
// the middle is not supported, and a single remaining inning is never
// removed (floor at length 1).
func RemoveLast(innings []InningScore) []InningScore {
	if len(innings) <= 1 {
		return innings
	}
	out := make([]InningScore, len(innings)-1)
	copy(out, innings[:len(innings)-1])
	return out
}

// Renumber restores the dense 1..N inning numbering in place order,
// ignoring whatever numbers the caller supplied.
func Renumber(innings []InningScore) []InningScore {
	out := make([]InningScore, len(innings))
	for i, s := range innings {
		s.Inning = i + 1
		out[i] = s
	}
	return out
}

// Set returns a copy of the inning with the given side's score set.
// A nil value clears the score back to unset.
func (s InningScore) Set(side Side, val *int) InningScore {
	switch side {
	case SideOurs:
		s.Our = copyInt(val)
	case SideOpponent:
		s.Opponent = copyInt(val)
	}
	return s
}

// Side identifies which team a score belongs to.
type Side int

const (
	SideOurs Side = iota
	SideOpponent
)

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

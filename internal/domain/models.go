package domain

// Holes is the number of holes on every card.
const Holes = 4

// Color is an opaque color identifier, usually a hex code such as "#D92121".
type Color string

// Direction is the threading orientation of a card.
type Direction string

const (
	DirectionS Direction = "S"
	DirectionZ Direction = "Z"
)

// Opposite returns the mirror threading.
func (d Direction) Opposite() Direction {
	if d == DirectionS {
		return DirectionZ
	}
	return DirectionS
}

// Turn is a single-card, single-row turning instruction.
type Turn string

const (
	Forward  Turn = "F"
	Backward Turn = "B"
	Idle     Turn = "I"
)

func (t Turn) String() string { return string(t) }

// Delta returns the change to a card's rotation counter when t is applied
// to a card threaded in direction d. Unknown turns do not rotate; any
// direction other than S turns as Z.
func (t Turn) Delta(d Direction) int {
	sign := -1
	if d == DirectionS {
		sign = 1
	}
	switch t {
	case Forward:
		return sign
	case Backward:
		return -sign
	default:
		return 0
	}
}

// CardSetup is one card: a color per hole and its threading direction.
type CardSetup struct {
	Colors    [Holes]Color `json:"colors" yaml:"colors"`
	Direction Direction    `json:"direction" yaml:"direction"`
}

// Threading lists the cards left to right.
type Threading []CardSetup

// TurningSequence holds one row of turns per woven row, indexed by card.
type TurningSequence [][]Turn

// Pattern holds the visible color of every card on every row.
type Pattern [][]Color

// Rows returns the number of rows.
func (p Pattern) Rows() int { return len(p) }

// Cards returns the number of cards, or 0 for an empty pattern.
func (p Pattern) Cards() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

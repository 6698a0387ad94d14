package domain

// GeneratePattern weaves threading through the turning sequence and returns
// the color on top of each card for every row.
//
// Each row is rendered from the rotation state as it stood before that row's
// turns, then every card is rotated. Rows shorter than the threading leave the
// remaining cards idle; extra entries are ignored. An empty threading or
// turning sequence yields an empty pattern.
func GeneratePattern(threading Threading, turning TurningSequence) Pattern {
	if len(threading) == 0 || len(turning) == 0 {
		return Pattern{}
	}

	rotations := make([]int, len(threading))
	pattern := make(Pattern, len(turning))

	for t, turns := range turning {
		row := make([]Color, len(threading))
		for i, card := range threading {
			row[i] = card.Colors[topHole(rotations[i])]
		}
		pattern[t] = row

		for i, card := range threading {
			rotations[i] += turnAt(turns, i).Delta(card.Direction)
		}
	}

	return pattern
}

// topHole maps a signed rotation counter onto [0, Holes).
func topHole(rotation int) int {
	return (rotation%Holes + Holes) % Holes
}

func turnAt(turns []Turn, card int) Turn {
	if card < len(turns) {
		return turns[card]
	}
	return Idle
}

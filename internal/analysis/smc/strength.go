package smc

// Direction is the bias a structural score leans toward.
type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionNeutral Direction = "NEUTRAL"
)

// Component weights for the composite structural score. The order block is
// the anchor component; CHoCH and engulfing act as confirmation.
const (
	weightOrderBlock = 0.4
	weightChoch      = 0.3
	weightEngulfing  = 0.3
)

// Strength fuses the latest detection of each pattern family into a single
// structural score in [0,1] plus a direction. The first contributing
// component fixes the direction; later components only add weight.
func Strength(blocks []OrderBlock, choch []ChochEvent, engulfing []EngulfingEvent) (float64, Direction) {
	score := 0.0
	direction := DirectionNeutral

	if len(blocks) > 0 {
		score += weightOrderBlock
		if blocks[len(blocks)-1].Kind == BlockBullish {
			direction = DirectionBuy
		} else {
			direction = DirectionSell
		}
	}
	if len(choch) > 0 {
		score += weightChoch
		if direction == DirectionNeutral {
			if choch[len(choch)-1].Kind == ChochBullish {
				direction = DirectionBuy
			} else {
				direction = DirectionSell
			}
		}
	}
	if len(engulfing) > 0 {
		score += weightEngulfing
		if direction == DirectionNeutral {
			if engulfing[len(engulfing)-1].Kind == EngulfingBullish {
				direction = DirectionBuy
			} else {
				direction = DirectionSell
			}
		}
	}
	if score > 1 {
		score = 1
	}
	return score, direction
}

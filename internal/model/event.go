package model

// Direction is the side of a swap.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// IsValid reports whether d is a known swap direction.
func (d Direction) IsValid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// TradeEvent is a target trade observed by an external monitor.
// The engine treats it as a read-only trigger: it is never mutated or stored.
type TradeEvent struct {
	Mint      string    `json:"mint"`
	Direction Direction `json:"direction"`
	// Amount is the observed lamport amount of the target trade.
	// Zero means the monitor could not extract one; the scaler rejects
	// such events before any network activity.
	Amount uint64 `json:"amount"`
}

package entities

// Gate directions.
const (
	DirectionEntry = "entry"
	DirectionExit  = "exit"
)

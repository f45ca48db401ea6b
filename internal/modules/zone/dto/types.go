package dto

type PointOutput struct {
	X float64
	Y float64
}

type ZoneOutput struct {
	ID     int
	Name   string
	Points []PointOutput
	Min    PointOutput
	Max    PointOutput
}

type ClassifyInput struct {
	X float64
	Y float64
}

// ClassificationOutput reports the winning zone. Kind is "neutral", "park"
// or "none"; Zone is -1 for "none".
type ClassificationOutput struct {
	Kind string
	Zone int
	Name string
}

func (c ClassificationOutput) IsPark() bool { return c.Kind == "park" }

func (c ClassificationOutput) IsNone() bool { return c.Kind == "none" }

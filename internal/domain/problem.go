package domain

// RoundUpProblem asks the player to pick numbers that add up to Target.
type RoundUpProblem struct {
	Target   int    `json:"target"`
	Numbers  []int  `json:"numbers"`
	Solution []int  `json:"solution"`
	Hint     string `json:"hint"`
}

// MultiplicationProblem is visualized as a Multiplicand x Multiplier grid.
type MultiplicationProblem struct {
	Multiplicand int `json:"multiplicand"`
	Multiplier   int `json:"multiplier"`
	Product      int `json:"product"`
}

// Blocks returns the number of grid cells revealed for the problem.
func (p MultiplicationProblem) Blocks() int {
	return p.Multiplicand * p.Multiplier
}

// BalanceProblem asks the player to add weights to Start until it reaches Target.
type BalanceProblem struct {
	Start   int   `json:"start"`
	Target  int   `json:"target"`
	Weights []int `json:"weights"`
}

// Difference is the amount the selected weights must add up to.
func (p BalanceProblem) Difference() int {
	return p.Target - p.Start
}

// Problem carries exactly one mode-specific problem.
type Problem struct {
	Mode           GameMode               `json:"mode"`
	Level          int                    `json:"level"`
	RoundUp        *RoundUpProblem        `json:"roundUp,omitempty"`
	Multiplication *MultiplicationProblem `json:"multiplication,omitempty"`
	Balance        *BalanceProblem        `json:"balance,omitempty"`
}

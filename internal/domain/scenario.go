package domain

import "time"

// Scenario is a named set of loan inputs saved for later comparison.
// Its schedule is never stored; it is recomputed from Inputs on every read.
type Scenario struct {
	ID        string
	Name      string
	Inputs    LoanInputs
	CreatedAt time.Time
}

package booking

import (
	"fmt"
	"math/rand"
)

// Policy decides which barber gets a "no preference" booking when more than
// one is fully valid.
type Policy string

const (
	PolicyFirstAvailable       Policy = "first_available"
	PolicyRandomAmongAvailable Policy = "random_among_available"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyFirstAvailable:
		return PolicyFirstAvailable, nil
	case PolicyRandomAmongAvailable:
		return PolicyRandomAmongAvailable, nil
	}
	return "", fmt.Errorf("unknown barber policy %q", s)
}

// order returns the viable candidates in the order commits are attempted.
// first_available keeps catalog order; random_among_available moves a random
// pick to the front and keeps the rest as fallbacks.
func (p Policy) order(viable []plan, intn func(int) int) []plan {
	if p != PolicyRandomAmongAvailable || len(viable) < 2 {
		return viable
	}
	if intn == nil {
		intn = rand.Intn
	}

	i := intn(len(viable))
	out := make([]plan, 0, len(viable))
	out = append(out, viable[i])
	out = append(out, viable[:i]...)
	out = append(out, viable[i+1:]...)
	return out
}

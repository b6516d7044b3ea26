package courier

import (
	"fmt"

	"courierdispatch/internal/pkg/errs"
)

// Type is the courier's transport, which fixes its carrying capacity and
// earnings coefficient.
type Type string

const (
	Foot Type = "foot"
	Bike Type = "bike"
	Car  Type = "car"
)

type typeTraits struct {
	capacity    float64
	coefficient int
}

var traits = map[Type]typeTraits{
	Foot: {capacity: 10, coefficient: 2},
	Bike: {capacity: 15, coefficient: 3},
	Car:  {capacity: 50, coefficient: 9},
}

// ParseType converts the wire representation ("foot", "bike", "car") to a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks that t is one of the known types.
func (t Type) Validate() error {
	if _, ok := traits[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("courier_type", fmt.Errorf("%q is not a courier type", string(t)))
	}
	return nil
}

// Capacity is the maximum total weight, in kilograms, a courier of this type carries.
// Unknown types carry nothing.
func (t Type) Capacity() float64 {
	return traits[t].capacity
}

// EarningsCoefficient multiplies the base payment of every delivered order.
func (t Type) EarningsCoefficient() int {
	return traits[t].coefficient
}

func (t Type) String() string {
	return string(t)
}

package domain

import "fmt"

// Side identifies which fighter an outcome backs.
type Side uint8

const (
	SideA Side = 0
	SideB Side = 1
)

// String returns a human-readable side label
func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// Other returns the opposing side
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Method identifies how a fight is predicted to end.
type Method uint8

const (
	MethodSubmission Method = 0
	MethodDecision   Method = 1
	MethodFinish     Method = 2

	// MethodCount bounds the method field; raw outcomes whose method bits
	// decode to MethodCount or above are invalid encodings.
	MethodCount Method = 3
)

// String returns a human-readable method label
func (m Method) String() string {
	switch m {
	case MethodSubmission:
		return "submission"
	case MethodDecision:
		return "decision"
	case MethodFinish:
		return "finish"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

// Outcome is the decoded form of a raw outcome value. The wire encoding packs
// the side into bit 2 and the method into bits 0-1; every consumer (locking,
// resolution, claims, seeding) goes through Encode/DecodeOutcome so the bit
// layout lives in exactly one place.
type Outcome struct {
	Side   Side
	Method Method
}

const (
	outcomeSideShift  = 2
	outcomeSideMask   = 0x1
	outcomeMethodMask = 0x3
)

// DecodeOutcome unpacks a raw outcome value into its side and method fields.
// It rejects raw values whose method bits fall outside the three known
// methods; range checking against a fight's outcomeCount is the caller's job.
func DecodeOutcome(raw uint8) (Outcome, error) {
	o := Outcome{
		Side:   Side((raw >> outcomeSideShift) & outcomeSideMask),
		Method: Method(raw & outcomeMethodMask),
	}
	if o.Method >= MethodCount {
		return Outcome{}, fmt.Errorf("%w: raw value %d has no method", ErrInvalidOutcome, raw)
	}
	return o, nil
}

// Encode packs the outcome back into its raw wire value.
func (o Outcome) Encode() uint8 {
	return uint8(o.Side)<<outcomeSideShift | uint8(o.Method)
}

// String returns a human-readable outcome label
func (o Outcome) String() string {
	return fmt.Sprintf("side %s by %s", o.Side, o.Method)
}

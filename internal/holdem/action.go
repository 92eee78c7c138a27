package holdem

// Op enumerates the betting actions a player can take
type Op int

const (
	OpFold Op = iota
	OpCheck
	OpCall
	OpRaise
)

var opNames = map[Op]string{
	OpFold:  "fold",
	OpCheck: "check",
	OpCall:  "call",
	OpRaise: "raise",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "unknown"
}

// ParseOp maps a wire action name to an Op
func ParseOp(name string) (Op, error) {
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	return 0, invalidf("Unsupported action '%s'", name)
}

// Action pairs an operation with its payload. Amount is the raise-to
// total and only meaningful for OpRaise.
type Action struct {
	Op     Op
	Amount int
}

package blackjack

// Op enumerates the operations a caller can apply to a running
// session. Using a closed enum instead of free-form action names lets
// the manager dispatch with an exhaustive switch.
type Op int

const (
	OpPlaceBet Op = iota
	OpDeal
	OpHit
	OpStand
	OpDouble
	OpSplit
	OpSurrender
	OpBuyInsurance
	OpSkipInsurance
	OpDealerStep
)

var opNames = map[Op]string{
	OpPlaceBet:      "place_bet",
	OpDeal:          "deal",
	OpHit:           "hit",
	OpStand:         "stand",
	OpDouble:        "double",
	OpSplit:         "split",
	OpSurrender:     "surrender",
	OpBuyInsurance:  "buy_insurance",
	OpSkipInsurance: "skip_insurance",
	OpDealerStep:    "dealer_step",
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

// Action pairs an operation with its payload. Amount is only
// meaningful for OpPlaceBet and OpBuyInsurance.
type Action struct {
	Op     Op
	Amount int
}

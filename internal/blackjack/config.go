package blackjack

// Defaults offered to unconfigured sessions
const (
	DefaultBankroll = 1000
	DefaultDecks    = 5
	DefaultMinBet   = 10
)

const (
	defaultPayoutNum    = 3
	defaultPayoutDen    = 2
	defaultMaxHands     = 4
	defaultCutCardRatio = 0.25
)

// Config is the per-session ruleset. It is validated once at Configure
// time and never changes for the session's lifetime; changing any rule
// requires a full reconfigure, which replaces the whole session.
type Config struct {
	Bankroll           int
	ShoeDecks          int
	MinBet             int
	MaxBet             int
	BlackjackPayoutNum int
	BlackjackPayoutDen int
	MaxHands           int
	CutCardRatio       float64
	DealerHitsSoft17   bool
}

// withDefaults fills unset fields. MaxBet defaults to the bankroll,
// the payout to 3:2, the split limit to 4 hands and the cut card to a
// quarter shoe.
func (c Config) withDefaults() Config {
	if c.MinBet == 0 {
		c.MinBet = DefaultMinBet
	}
	if c.MaxBet == 0 {
		c.MaxBet = c.Bankroll
	}
	if c.BlackjackPayoutNum == 0 {
		c.BlackjackPayoutNum = defaultPayoutNum
	}
	if c.BlackjackPayoutDen == 0 {
		c.BlackjackPayoutDen = defaultPayoutDen
	}
	if c.MaxHands == 0 {
		c.MaxHands = defaultMaxHands
	}
	if c.CutCardRatio == 0 {
		c.CutCardRatio = defaultCutCardRatio
	}
	return c
}

func (c Config) validate() error {
	if c.Bankroll <= 0 {
		return invalidf("Bankroll must be positive")
	}
	if c.ShoeDecks <= 0 {
		return invalidf("Shoe must include at least one deck")
	}
	if c.MinBet <= 0 || c.MaxBet <= 0 {
		return invalidf("Bet limits must be positive")
	}
	if c.MinBet > c.MaxBet {
		return invalidf("min_bet cannot exceed max_bet")
	}
	if c.BlackjackPayoutNum <= 0 || c.BlackjackPayoutDen <= 0 {
		return invalidf("Blackjack payout ratio must be positive")
	}
	if c.MaxHands < 1 {
		return invalidf("max_hands must allow at least one hand")
	}
	if c.CutCardRatio <= 0 || c.CutCardRatio > 1 {
		return invalidf("cut_card_ratio must be in (0, 1]")
	}
	return nil
}

// ClampBet forces a bet into the table's [min, max] range
func (c Config) ClampBet(amount int) int {
	if amount < c.MinBet {
		return c.MinBet
	}
	if amount > c.MaxBet {
		return c.MaxBet
	}
	return amount
}

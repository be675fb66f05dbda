package blackjack

import "fmt"

// Outcome is the terminal classification of a session. The set is closed:
// every value is either one of the named constants below or a composite
// split code produced by SplitOutcome.
type Outcome string

const (
	OutcomeBlackjack Outcome = "BLACKJACK"
	OutcomeWin       Outcome = "WIN"
	OutcomeLose      Outcome = "LOSE"
	OutcomeTie       Outcome = "TIE"

	OutcomeDoubleWin  Outcome = "DOUBLE WIN"
	OutcomeDoubleLose Outcome = "DOUBLE LOSE"
	OutcomeDoubleTie  Outcome = "DOUBLE TIE"

	// Insurance outcomes. PAYOUT means the dealer held a natural and the
	// side bet paid 2:1. WIN/LOSE/TIE report the main hand's verdict after
	// the side bet was forfeited.
	OutcomeInsurancePayout Outcome = "INSURANCE PAYOUT"
	OutcomeInsuranceWin    Outcome = "INSURANCE WIN"
	OutcomeInsuranceLose   Outcome = "INSURANCE LOSE"
	OutcomeInsuranceTie    Outcome = "INSURANCE TIE"

	OutcomeCancel  Outcome = "CANCEL"
	OutcomeTimeout Outcome = "TIMEOUT"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// handVerdicts are the per-hand results a split half can produce. BLACKJACK
// appears here so the composite code space is the full cross-product, even
// though a post-split two-card 21 is scored as a plain WIN.
var handVerdicts = []Outcome{
	OutcomeWin, OutcomeLose, OutcomeTie, OutcomeBlackjack,
	OutcomeDoubleWin, OutcomeDoubleLose, OutcomeDoubleTie, Outcome("DOUBLE BLACKJACK"),
}

// SplitOutcome composes the per-hand verdicts of a split session into one
// composite code, e.g. "SPLIT WIN-LOSE".
func SplitOutcome(first, second Outcome) Outcome {
	return Outcome(fmt.Sprintf("SPLIT %s-%s", first, second))
}

var validOutcomes = func() map[Outcome]bool {
	valid := map[Outcome]bool{
		OutcomeBlackjack: true,
		OutcomeWin:       true,
		OutcomeLose:      true,
		OutcomeTie:       true,

		OutcomeDoubleWin:  true,
		OutcomeDoubleLose: true,
		OutcomeDoubleTie:  true,

		OutcomeInsurancePayout: true,
		OutcomeInsuranceWin:    true,
		OutcomeInsuranceLose:   true,
		OutcomeInsuranceTie:    true,

		OutcomeCancel:  true,
		OutcomeTimeout: true,
	}
	for _, first := range handVerdicts {
		for _, second := range handVerdicts {
			valid[SplitOutcome(first, second)] = true
		}
	}
	return valid
}()

// ValidOutcome reports whether the code belongs to the closed outcome set
func ValidOutcome(o Outcome) bool {
	return validOutcomes[o]
}

// compareHands produces the base verdict for one player hand against the
// dealer. allowBlackjack is false for split halves, where a natural is not
// reachable.
func compareHands(player, dealer *Hand, allowBlackjack bool) Outcome {
	pv := player.Value()
	dv := dealer.Value()

	if pv.IsBust {
		return OutcomeLose
	}
	if allowBlackjack && pv.IsBlackjack && !dv.IsBlackjack {
		return OutcomeBlackjack
	}
	if dv.IsBust {
		return OutcomeWin
	}
	switch {
	case pv.Total > dv.Total:
		return OutcomeWin
	case pv.Total < dv.Total:
		return OutcomeLose
	default:
		return OutcomeTie
	}
}

// handVerdict is compareHands with the double down prefix applied
func handVerdict(player, dealer *Hand, allowBlackjack bool) Outcome {
	verdict := compareHands(player, dealer, allowBlackjack)
	if player.Doubled {
		return Outcome("DOUBLE " + verdict)
	}
	return verdict
}

// insuranceVerdict maps a main-hand verdict onto the insurance codes used
// when the side bet was taken and forfeited. Insurance restricts play to
// hit and stand, so doubled or blackjack verdicts cannot reach here.
func insuranceVerdict(verdict Outcome) Outcome {
	switch verdict {
	case OutcomeWin:
		return OutcomeInsuranceWin
	case OutcomeLose:
		return OutcomeInsuranceLose
	default:
		return OutcomeInsuranceTie
	}
}

// Resolve classifies a finished session into exactly one outcome code.
// hands holds one entry for an unsplit session and two for a split one.
// insuranceTaken marks a taken side bet: a dealer natural pays it out
// immediately, otherwise the bet is forfeited and the main-hand verdict is
// reported through the insurance codes.
func Resolve(dealer *Hand, hands []*Hand, insuranceTaken bool) Outcome {
	if insuranceTaken && dealer.Value().IsBlackjack {
		return OutcomeInsurancePayout
	}

	if len(hands) == 2 {
		first := handVerdict(hands[0], dealer, false)
		second := handVerdict(hands[1], dealer, false)
		return SplitOutcome(first, second)
	}

	verdict := handVerdict(hands[0], dealer, true)
	if insuranceTaken {
		return insuranceVerdict(verdict)
	}
	return verdict
}

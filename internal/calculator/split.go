// Package calculator holds the pure split arithmetic: dividing an obligation
// total into per-participant shares and redistributing a removed
// participant's share. All functions work in integer minor units and
// guarantee that the shares sum to the obligation total exactly.
package calculator

import (
	"fmt"
	"math"

	"settleup/internal/models"
)

// EqualSplit divides total equally among participants. Each share is the
// per-person amount rounded to the nearest minor unit; the rounding
// remainder (either sign) is absorbed by the payer, who already fronted the
// money. The payer's share is marked paid from the start.
//
// Returns ErrValidation for a non-positive total, an empty or duplicated
// participant set, or a payer who is not a participant.
func EqualSplit(total models.Money, payerID string, participants []string) (models.ShareMap, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive, got %s", models.ErrValidation, total)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", models.ErrValidation)
	}

	shares := make(models.ShareMap, len(participants))
	for _, p := range participants {
		if _, dup := shares[p]; dup {
			return nil, fmt.Errorf("%w: duplicate participant %s", models.ErrValidation, p)
		}
		shares[p] = models.Share{}
	}
	if _, ok := shares[payerID]; !ok {
		return nil, fmt.Errorf("%w: payer %s must be one of the participants", models.ErrValidation, payerID)
	}

	// perPerson = round(total / n) in minor units; e.g. 100.00 across 3
	// gives 33.33 each with 0.01 left over for the payer.
	perPerson := models.Money(math.Round(float64(total) / float64(len(participants))))
	for p := range shares {
		shares[p] = models.Share{Amount: perPerson, Paid: p == payerID}
	}
	remainder := total - perPerson*models.Money(len(participants))
	if remainder != 0 {
		sh := shares[payerID]
		sh.Amount += remainder
		shares[payerID] = sh
	}

	return shares, nil
}

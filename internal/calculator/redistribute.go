package calculator

import (
	"fmt"
	"sort"

	"settleup/internal/models"
)

// RemoveParticipant drops removedID's share from shares and reassigns the
// amount so the sum of all shares is unchanged:
//
//   - A paid share folds into the payer's share. The payer is already
//     marked paid, so nothing new becomes owed.
//   - An unpaid share is redistributed across the remaining unpaid
//     participants in proportion to what they still owe (equally when all
//     their amounts are zero). Leftover minor units from the proportional
//     division go one each to the unpaid participants in sorted id order.
//   - An unpaid share with nobody left unpaid also folds into the payer.
//
// Removing the payer is not supported here; callers reject that case before
// mutating anything. Removing an id with no share is a no-op.
func RemoveParticipant(shares models.ShareMap, removedID, payerID string) error {
	removed, ok := shares[removedID]
	if !ok {
		return nil
	}
	if removedID == payerID {
		return fmt.Errorf("%w: cannot remove payer %s from their own obligation", models.ErrInvalidOperation, payerID)
	}
	delete(shares, removedID)

	foldIntoPayer := func() {
		sh := shares[payerID]
		sh.Amount += removed.Amount
		shares[payerID] = sh
	}

	if removed.Paid || removed.Amount == 0 {
		if removed.Amount != 0 {
			foldIntoPayer()
		}
		return nil
	}

	var unpaid []string
	var unpaidTotal models.Money
	for id, sh := range shares {
		if !sh.Paid {
			unpaid = append(unpaid, id)
			unpaidTotal += sh.Amount
		}
	}
	if len(unpaid) == 0 {
		foldIntoPayer()
		return nil
	}
	sort.Strings(unpaid)

	assigned := models.Money(0)
	for _, id := range unpaid {
		sh := shares[id]
		var extra models.Money
		if unpaidTotal > 0 {
			extra = removed.Amount * sh.Amount / unpaidTotal
		} else {
			extra = removed.Amount / models.Money(len(unpaid))
		}
		sh.Amount += extra
		assigned += extra
		shares[id] = sh
	}

	// Hand out the integer-division residue one minor unit at a time.
	residue := removed.Amount - assigned
	for i := 0; residue > 0; i = (i + 1) % len(unpaid) {
		sh := shares[unpaid[i]]
		sh.Amount++
		shares[unpaid[i]] = sh
		residue--
	}

	return nil
}

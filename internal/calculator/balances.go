package calculator

import (
	"sort"

	"settleup/internal/models"
)

// MemberBalance summarizes one member's position across a group's open
// obligations.
type MemberBalance struct {
	MemberID string
	// Outstanding is the total of other participants' unpaid shares on
	// obligations this member fronted.
	Outstanding models.Money
	// Owed is the total of this member's own unpaid shares.
	Owed models.Money
	// Net is Outstanding - Owed. Positive: the group owes them.
	Net models.Money
}

// DebtEdge is a suggested repayment from one member to another.
type DebtEdge struct {
	From   string
	To     string
	Amount models.Money
}

// GroupBalances aggregates who still owes what across the group's open
// obligations and reduces the result to a small set of repayment edges by
// greedily matching debtors against creditors. Settled obligations are gone
// from the live store, so only open ones contribute.
func GroupBalances(obligations []*models.Obligation) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	at := func(id string) *MemberBalance {
		b, ok := balances[id]
		if !ok {
			b = &MemberBalance{MemberID: id}
			balances[id] = b
		}
		return b
	}

	for _, o := range obligations {
		for id, sh := range o.Shares {
			if sh.Paid {
				continue
			}
			at(id).Owed += sh.Amount
			at(o.PayerID).Outstanding += sh.Amount
		}
	}

	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]MemberBalance, 0, len(ids))
	var debtors, creditors []string
	remaining := make(map[string]models.Money)
	for _, id := range ids {
		b := balances[id]
		b.Net = b.Outstanding - b.Owed
		out = append(out, *b)
		switch {
		case b.Net < 0:
			debtors = append(debtors, id)
			remaining[id] = -b.Net
		case b.Net > 0:
			creditors = append(creditors, id)
			remaining[id] = b.Net
		}
	}

	// Greedy matching; minor-unit arithmetic means balances zero out
	// exactly with no floating-point epsilon.
	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := debtors[i], creditors[j]
		amount := remaining[d]
		if remaining[c] < amount {
			amount = remaining[c]
		}
		if amount > 0 {
			edges = append(edges, DebtEdge{From: d, To: c, Amount: amount})
		}
		remaining[d] -= amount
		remaining[c] -= amount
		if remaining[d] == 0 {
			i++
		}
		if remaining[c] == 0 {
			j++
		}
	}

	return out, edges
}

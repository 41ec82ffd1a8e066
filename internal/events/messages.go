package events

import (
	"encoding/json"
	"time"

	"settleup/internal/models"
)

// PaymentRecorded announces one participant's share being marked paid.
type PaymentRecorded struct {
	ObligationID  string       `json:"obligationId"`
	GroupID       string       `json:"groupId"`
	ParticipantID string       `json:"participantId"`
	Amount        models.Money `json:"amount"`
	Timestamp     time.Time    `json:"timestamp"`
}

// ObligationSettled announces an obligation reaching its terminal state and
// leaving the live store. It carries the final share snapshot since the row
// no longer exists anywhere else.
type ObligationSettled struct {
	ObligationID string                  `json:"obligationId"`
	GroupID      string                  `json:"groupId"`
	Total        models.Money            `json:"total"`
	PayerID      string                  `json:"payerId"`
	Shares       map[string]models.Money `json:"shares"`
	Timestamp    time.Time               `json:"timestamp"`
}

// ShareAmounts flattens a ShareMap to participant -> amount for the
// settlement snapshot.
func ShareAmounts(shares models.ShareMap) map[string]models.Money {
	out := make(map[string]models.Money, len(shares))
	for id, sh := range shares {
		out[id] = sh.Amount
	}
	return out
}

func toJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

package calculator

import (
	"errors"
	"testing"

	"settleup/internal/models"
)

func TestRemoveParticipant(t *testing.T) {
	tests := []struct {
		name         string
		shares       models.ShareMap
		removed      string
		payer        string
		wantErr      bool
		validateFunc func(t *testing.T, shares models.ShareMap)
	}{
		{
			name: "unpaid share splits across remaining unpaid",
			shares: models.ShareMap{
				"A": {Amount: 3334, Paid: true},
				"B": {Amount: 3333},
				"C": {Amount: 3333},
			},
			removed: "B",
			payer:   "A",
			validateFunc: func(t *testing.T, shares models.ShareMap) {
				if got := shares["C"].Amount; got != 6666 {
					t.Errorf("C amount = %s, want 66.66", got)
				}
				if got := shares["A"].Amount; got != 3334 {
					t.Errorf("payer amount = %s, want unchanged 33.34", got)
				}
			},
		},
		{
			name: "proportional redistribution with leftover minor units",
			shares: models.ShareMap{
				"A": {Amount: 100, Paid: true},
				"B": {Amount: 101},
				"C": {Amount: 200},
				"D": {Amount: 99},
			},
			removed: "B",
			payer:   "A",
			validateFunc: func(t *testing.T, shares models.ShareMap) {
				// C gets floor(101*200/299)=67, D gets floor(101*99/299)=33,
				// residue 1 goes to C (sorted order).
				if got := shares["C"].Amount; got != 268 {
					t.Errorf("C amount = %d, want 268", got)
				}
				if got := shares["D"].Amount; got != 132 {
					t.Errorf("D amount = %d, want 132", got)
				}
			},
		},
		{
			name: "paid share folds into the payer",
			shares: models.ShareMap{
				"A": {Amount: 400, Paid: true},
				"B": {Amount: 300, Paid: true},
				"C": {Amount: 300},
			},
			removed: "B",
			payer:   "A",
			validateFunc: func(t *testing.T, shares models.ShareMap) {
				if got := shares["A"].Amount; got != 700 {
					t.Errorf("payer amount = %d, want 700", got)
				}
				if got := shares["C"].Amount; got != 300 {
					t.Errorf("C amount = %d, want unchanged 300", got)
				}
			},
		},
		{
			name: "unpaid share with nobody left unpaid folds into the payer",
			shares: models.ShareMap{
				"A": {Amount: 500, Paid: true},
				"B": {Amount: 250, Paid: true},
				"C": {Amount: 250},
			},
			removed: "C",
			payer:   "A",
			validateFunc: func(t *testing.T, shares models.ShareMap) {
				if got := shares["A"].Amount; got != 750 {
					t.Errorf("payer amount = %d, want 750", got)
				}
			},
		},
		{
			name: "removing an id without a share is a no-op",
			shares: models.ShareMap{
				"A": {Amount: 100, Paid: true},
				"B": {Amount: 100},
			},
			removed: "Z",
			payer:   "A",
			validateFunc: func(t *testing.T, shares models.ShareMap) {
				if len(shares) != 2 {
					t.Errorf("share count = %d, want 2", len(shares))
				}
			},
		},
		{
			name: "removing the payer is rejected",
			shares: models.ShareMap{
				"A": {Amount: 100, Paid: true},
				"B": {Amount: 100},
			},
			removed: "A",
			payer:   "A",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.shares.Sum()
			err := RemoveParticipant(tt.shares, tt.removed, tt.payer)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, models.ErrInvalidOperation) {
					t.Errorf("expected invalid-operation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RemoveParticipant failed: %v", err)
			}
			if _, ok := tt.shares[tt.removed]; ok && tt.removed != "Z" {
				t.Errorf("removed participant %s still has a share", tt.removed)
			}
			if after := tt.shares.Sum(); after != before {
				t.Errorf("share sum changed: before %s, after %s", before, after)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, tt.shares)
			}
		})
	}
}

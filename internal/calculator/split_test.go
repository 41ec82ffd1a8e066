package calculator

import (
	"errors"
	"fmt"
	"testing"

	"settleup/internal/models"
)

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		total        models.Money
		payer        string
		participants []string
		wantErr      bool
		validateFunc func(t *testing.T, shares models.ShareMap)
	}{
		{
			name:         "100.00 across three, payer absorbs the extra paisa",
			total:        10000,
			payer:        "A",
			participants: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, shares models.ShareMap) {
				if got := shares["A"].Amount; got != 3334 {
					t.Errorf("A amount = %s, want 33.34", got)
				}
				if got := shares["B"].Amount; got != 3333 {
					t.Errorf("B amount = %s, want 33.33", got)
				}
				if got := shares["C"].Amount; got != 3333 {
					t.Errorf("C amount = %s, want 33.33", got)
				}
				if !shares["A"].Paid {
					t.Error("payer share should start paid")
				}
				if shares["B"].Paid || shares["C"].Paid {
					t.Error("non-payer shares should start unpaid")
				}
			},
		},
		{
			name:         "rounding up gives the payer a smaller share",
			total:        10000, // 100.00 / 6 rounds to 16.67, payer takes 16.65
			payer:        "p1",
			participants: []string{"p1", "p2", "p3", "p4", "p5", "p6"},
			validateFunc: func(t *testing.T, shares models.ShareMap) {
				if got := shares["p2"].Amount; got != 1667 {
					t.Errorf("p2 amount = %s, want 16.67", got)
				}
				if got := shares["p1"].Amount; got != 1665 {
					t.Errorf("payer amount = %s, want 16.65", got)
				}
			},
		},
		{
			name:         "single member is fully paid at once",
			total:        500,
			payer:        "solo",
			participants: []string{"solo"},
			validateFunc: func(t *testing.T, shares models.ShareMap) {
				if got := shares["solo"].Amount; got != 500 {
					t.Errorf("solo amount = %s, want 5.00", got)
				}
				if !shares["solo"].Paid {
					t.Error("single-member obligation should be immediately paid")
				}
			},
		},
		{
			name:         "one paisa across three",
			total:        1,
			payer:        "A",
			participants: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, shares models.ShareMap) {
				if sum := shares.Sum(); sum != 1 {
					t.Errorf("sum = %s, want 0.01", sum)
				}
				if got := shares["A"].Amount; got != 1 {
					t.Errorf("payer amount = %s, want 0.01", got)
				}
			},
		},
		{
			name:         "zero total should error",
			total:        0,
			payer:        "A",
			participants: []string{"A"},
			wantErr:      true,
		},
		{
			name:         "negative total should error",
			total:        -100,
			payer:        "A",
			participants: []string{"A"},
			wantErr:      true,
		},
		{
			name:         "no participants should error",
			total:        100,
			payer:        "A",
			participants: []string{},
			wantErr:      true,
		},
		{
			name:         "payer outside participants should error",
			total:        100,
			payer:        "X",
			participants: []string{"A", "B"},
			wantErr:      true,
		},
		{
			name:         "duplicate participants should error",
			total:        100,
			payer:        "A",
			participants: []string{"A", "B", "B"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualSplit(tt.total, tt.payer, tt.participants)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, models.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EqualSplit failed: %v", err)
			}
			if sum := shares.Sum(); sum != tt.total {
				t.Errorf("share sum = %s, want %s", sum, tt.total)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

// The sum of shares must equal the total exactly for every participant
// count, not just the sizes where division happens to be even.
func TestEqualSplitExactSum(t *testing.T) {
	totals := []models.Money{1, 99, 100, 101, 10000, 33333, 999999}
	for _, total := range totals {
		for n := 1; n <= 50; n++ {
			participants := make([]string, n)
			for i := range participants {
				participants[i] = fmt.Sprintf("user-%02d", i)
			}
			shares, err := EqualSplit(total, participants[0], participants)
			if err != nil {
				t.Fatalf("EqualSplit(%s, n=%d) failed: %v", total, n, err)
			}
			if sum := shares.Sum(); sum != total {
				t.Errorf("EqualSplit(%s, n=%d): sum = %s, want %s", total, n, sum, total)
			}
		}
	}
}

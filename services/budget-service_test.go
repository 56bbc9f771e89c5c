package services

import (
	"errors"
	"testing"

	"teamup-project/microservices/governance-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeRemaining(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	siblings := []BudgetAllocation{
		{ID: first, Amount: 40},
		{ID: second, Amount: 30},
	}

	if got := ComputeRemaining(100, siblings, primitive.NilObjectID); got != 30 {
		t.Fatalf("remaining with no exclusion: expected 30, got %d", got)
	}
	// Editing an allocation hands its own share back first.
	if got := ComputeRemaining(100, siblings, first); got != 70 {
		t.Fatalf("remaining excluding the edited allocation: expected 70, got %d", got)
	}
	if got := ComputeRemaining(100, nil, primitive.NilObjectID); got != 100 {
		t.Fatalf("remaining with no siblings: expected 100, got %d", got)
	}
}

func TestValidateProposedAmountAtTheBoundary(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	siblings := []BudgetAllocation{
		{ID: first, Amount: 40},
		{ID: second, Amount: 30},
	}
	remaining := ComputeRemaining(100, siblings, first)

	if amount, err := ValidateProposedAmount(70, remaining, 0); err != nil || amount != 70 {
		t.Fatalf("raising to exactly the effective remaining must pass, got (%d, %v)", amount, err)
	}

	_, err := ValidateProposedAmount(71, remaining, 0)
	var exceededErr *models.BudgetExceededError
	if !errors.As(err, &exceededErr) {
		t.Fatalf("one over the effective remaining must be rejected, got %v", err)
	}
	if exceededErr.Remaining != 70 {
		t.Fatalf("error must report the effective remaining 70, got %d", exceededErr.Remaining)
	}
}

func TestValidateProposedAmountCreation(t *testing.T) {
	used := []BudgetAllocation{{ID: primitive.NewObjectID(), Amount: 90}}
	remaining := ComputeRemaining(100, used, primitive.NilObjectID)

	if _, err := ValidateProposedAmount(11, remaining, 0); err == nil {
		t.Fatal("allocating past the pool must be rejected")
	}
	if amount, err := ValidateProposedAmount(10, remaining, 0); err != nil || amount != 10 {
		t.Fatalf("allocating exactly the remainder must pass, got (%d, %v)", amount, err)
	}
}

func TestValidateProposedAmountPrecedence(t *testing.T) {
	// Both violated at once: the exceeded error wins over below-minimum.
	_, err := ValidateProposedAmount(60, 50, 65)
	var exceededErr *models.BudgetExceededError
	if !errors.As(err, &exceededErr) {
		t.Fatalf("expected the exceeded error to take precedence, got %v", err)
	}
}

func TestValidateProposedAmountBelowMinimum(t *testing.T) {
	_, err := ValidateProposedAmount(3, 50, 5)
	var belowMinErr *models.BelowMinimumBudgetError
	if !errors.As(err, &belowMinErr) {
		t.Fatalf("expected a below-minimum error, got %v", err)
	}
	if belowMinErr.Proposed != 3 || belowMinErr.Minimum != 5 {
		t.Fatalf("error must carry proposed 3 and minimum 5, got %+v", belowMinErr)
	}
}

func TestValidateProposedAmountRounds(t *testing.T) {
	amount, err := ValidateProposedAmount(10.4, 50, 0)
	if err != nil || amount != 10 {
		t.Fatalf("10.4 must round down to 10, got (%d, %v)", amount, err)
	}
	amount, err = ValidateProposedAmount(10.5, 50, 0)
	if err != nil || amount != 11 {
		t.Fatalf("10.5 must round up to 11, got (%d, %v)", amount, err)
	}
	// Rounding happens before the budget check.
	if _, err := ValidateProposedAmount(50.4, 50, 0); err != nil {
		t.Fatalf("50.4 rounds to 50 and must pass, got %v", err)
	}
	if _, err := ValidateProposedAmount(50.5, 50, 0); err == nil {
		t.Fatal("50.5 rounds to 51 and must be rejected")
	}
}

func TestPercentOfTotal(t *testing.T) {
	if got := PercentOfTotal(25, 100); got != 25 {
		t.Fatalf("expected 25 percent, got %v", got)
	}
	if got := PercentOfTotal(10, 0); got != 0 {
		t.Fatalf("zero total must yield 0, got %v", got)
	}
	if got := PercentOfTotal(200, 100); got != 100 {
		t.Fatalf("display percent is clamped to 100, got %v", got)
	}
}

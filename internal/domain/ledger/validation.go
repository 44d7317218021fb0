package ledger

import (
	"strings"
	"time"
)

// ValidateCreateInput validates fields required to create a project.
func ValidateCreateInput(req CreateProjectRequest, now time.Time) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(req.Description) == "" {
		return ErrEmptyDescription
	}
	if req.Budget <= 0 {
		return ErrNonPositiveBudget
	}
	if !req.Deadline.After(now) {
		return ErrDeadlineNotFuture
	}
	return nil
}

// FeeSplit computes the owner fee (floor division) and the freelancer payout
// for a completed project. The two amounts always sum exactly to budget.
func FeeSplit(budget int64, pct uint8) (payout, fee int64) {
	fee = budget * int64(pct) / 100
	return budget - fee, fee
}

func requireStatus(proj *Project, want Status) error {
	if proj.Status != want {
		return ErrInvalidState
	}
	return nil
}

func requireClient(proj *Project, caller string) error {
	if caller != proj.Client {
		return ErrUnauthorized
	}
	return nil
}

func requireFreelancer(proj *Project, caller string) error {
	if proj.Freelancer == "" || caller != proj.Freelancer {
		return ErrUnauthorized
	}
	return nil
}

func containsBidder(bids []string, bidder string) bool {
	for _, b := range bids {
		if b == bidder {
			return true
		}
	}
	return false
}

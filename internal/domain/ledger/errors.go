package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the caller is not allowed to perform the operation.
	ErrUnauthorized = errors.New("caller not authorized")
	// ErrProjectNotFound indicates the project id was never allocated.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidState indicates the operation is not permitted from the
	// project's current status.
	ErrInvalidState = errors.New("operation not allowed in current status")
	// ErrValidation indicates invalid input for a ledger operation.
	ErrValidation = errors.New("invalid input")
	// ErrCustody indicates the funds-custody collaborator could not complete
	// a deposit, payout, or refund.
	ErrCustody = errors.New("funds custody operation failed")
)

var (
	ErrEmptyTitle        = fmt.Errorf("%w: title required", ErrValidation)
	ErrEmptyDescription  = fmt.Errorf("%w: description required", ErrValidation)
	ErrNonPositiveBudget = fmt.Errorf("%w: deposit must be positive", ErrValidation)
	ErrDeadlineNotFuture = fmt.Errorf("%w: deadline must be in the future", ErrValidation)
	ErrDeadlinePassed    = fmt.Errorf("%w: project deadline has passed", ErrValidation)
	ErrSelfBid           = fmt.Errorf("%w: client cannot bid on own project", ErrValidation)
	ErrDuplicateBid      = fmt.Errorf("%w: bid already submitted", ErrValidation)
	ErrEmptyFreelancer   = fmt.Errorf("%w: freelancer identity required", ErrValidation)
	ErrSelfAssignment    = fmt.Errorf("%w: client cannot assign self", ErrValidation)
	ErrNotABidder        = fmt.Errorf("%w: freelancer has not bid on this project", ErrValidation)
	ErrFeeOutOfRange     = fmt.Errorf("%w: platform fee must be between 0 and 10", ErrValidation)
)

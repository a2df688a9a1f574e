package services

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const maxGenerateTries = 3

// CodeRoleFor returns the handoff role an order expects: Delivery for delivery
// orders and Pickup otherwise. The role always comes from server-side state.
func CodeRoleFor(o *order.Order) validationcode.Role {
	if o.IsDelivery() {
		return validationcode.Delivery
	}
	return validationcode.Pickup
}

// ValidationCodeService issues and verifies one-time handoff codes.
//
// Business rules:
//   - at most one Active code exists per order; issuing revokes the previous live code
//   - Verify returns nil exactly once per code
//   - a code locks after maxAttempts wrong values and only a reissue unblocks the order
type ValidationCodeService struct {
	codes       ports.ValidationCodeRepository
	generator   ports.CodeGenerator
	maxAttempts int
}

func NewValidationCodeService(
	codes ports.ValidationCodeRepository,
	generator ports.CodeGenerator,
	maxAttempts int,
) *ValidationCodeService {
	return &ValidationCodeService{
		codes:       codes,
		generator:   generator,
		maxAttempts: maxAttempts,
	}
}

// Issue revokes the live code of the order, if any, and stores a fresh Active one.
func (s *ValidationCodeService) Issue(
	ctx context.Context,
	orderID kernel.UUID,
	role validationcode.Role,
	now time.Time,
) (*validationcode.Code, error) {
	previous, err := s.revokeLive(ctx, orderID)
	if err != nil {
		return nil, err
	}

	value, err := s.generate(previous)
	if err != nil {
		return nil, err
	}

	code, err := validationcode.NewCode(kernel.NewUUID(), orderID, value, role, now)
	if err != nil {
		return nil, err
	}

	if err = s.codes.Add(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// Verify checks the presented value against the latest code of the order.
//
// Returns:
//   - nil when the code was consumed by this call
//   - errs.ErrAlreadyConsumed when the consumed code is presented again
//   - errs.ErrAttemptsExceeded when the code is locked
//   - errs.ErrCodeInvalid for a wrong value, a wrong role or a revoked code
//   - errs.ObjectNotFoundError when no code was issued
//
// Failed attempts are written through the repository; the caller decides to
// commit them even though the verification failed.
func (s *ValidationCodeService) Verify(
	ctx context.Context,
	orderID kernel.UUID,
	value string,
	role validationcode.Role,
	now time.Time,
) error {
	code, err := s.codes.GetLatest(ctx, orderID)
	if err != nil {
		return err
	}

	before := code.Snapshot()
	verifyErr := code.Verify(value, role, s.maxAttempts, now)

	after := code.Snapshot()
	if before.Status != after.Status || before.FailedAttempts != after.FailedAttempts {
		if err = s.codes.Update(ctx, code); err != nil {
			return err
		}
	}

	return verifyErr
}

// Revoke invalidates the live code of the order. Orders without a live code are left alone.
func (s *ValidationCodeService) Revoke(ctx context.Context, orderID kernel.UUID) error {
	_, err := s.revokeLive(ctx, orderID)
	return err
}

// Active returns the code the client should display.
func (s *ValidationCodeService) Active(ctx context.Context, orderID kernel.UUID) (*validationcode.Code, error) {
	code, err := s.codes.GetLatest(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if code.Status() != validationcode.Active {
		return nil, errs.NewObjectNotFoundError("active validation code", orderID)
	}
	return code, nil
}

// revokeLive returns the previous code of the order, or nil when none was issued.
func (s *ValidationCodeService) revokeLive(ctx context.Context, orderID kernel.UUID) (*validationcode.Code, error) {
	latest, err := s.codes.GetLatest(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !latest.Status().IsLive() {
		return latest, nil
	}
	if err = latest.Revoke(); err != nil {
		return nil, err
	}
	if err = s.codes.Update(ctx, latest); err != nil {
		return nil, err
	}
	return latest, nil
}

// generate avoids handing out the value of the code it replaces.
func (s *ValidationCodeService) generate(previous *validationcode.Code) (string, error) {
	var value string
	for range maxGenerateTries {
		generated, err := s.generator.Generate()
		if err != nil {
			return "", err
		}
		value = generated
		if previous == nil || !previous.Matches(value) {
			break
		}
	}
	return value, nil
}

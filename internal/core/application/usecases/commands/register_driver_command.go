package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRegisterDriverCommandIsNotConstructed = errors.New(
		"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
	)
	ErrDriverNameIsRequired = errors.New("driver name is required")
)

// RegisterDriverCommand represents a new driver joining the fleet.
// The zone is optional; drivers without a zone are offered for every order.
type RegisterDriverCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	name     string
	zone     string

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(driverID kernel.UUID, name, zone string) (RegisterDriverCommand, error) {
	cmd := RegisterDriverCommand{
		zone:  zone,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setName(name),
	); err != nil {
		return RegisterDriverCommand{}, err
	}

	return cmd, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c RegisterDriverCommand) Name() string {
	return c.name
}

func (c RegisterDriverCommand) Zone() string {
	return c.zone
}

func (c *RegisterDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *RegisterDriverCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrDriverNameIsRequired
	}

	c.name = name
	return nil
}

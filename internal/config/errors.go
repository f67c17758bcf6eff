package config

import (
	"errors"
	"fmt"
)

var (
	errDBPasswordRequired = errors.New("DB_PASSWORD environment variable is required for postgres storage")
	errSuccessRate        = errors.New("simulator.success_rate must be within [0, 1]")
	errNegativeDelay      = errors.New("simulator.delay must not be negative")
)

func errUnknownDriver(driver string) error {
	return fmt.Errorf("unknown storage driver %q", driver)
}

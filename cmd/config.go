package cmd

import (
	"fmt"
	"strconv"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/services"
)

type Config struct {
	HTTPPort      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	AmqpURL       string
	WebhookSecret string

	PayoutPolicy     string
	PayoutFlatCents  string
	PayoutFeePercent string
}

// BuildPayoutPolicy turns the configured policy name and its parameters into
// a domain policy. An empty name selects the fee-plus-tip default.
func (c Config) BuildPayoutPolicy() (services.PayoutPolicy, error) {
	name := c.PayoutPolicy
	if name == "" {
		return services.NewFeePlusTipPolicy(), nil
	}

	kind, err := services.PolicyKindFromString(name)
	if err != nil {
		return services.PayoutPolicy{}, err
	}

	switch kind {
	case services.PolicyFeePlusTip:
		return services.NewFeePlusTipPolicy(), nil
	case services.PolicyFlat:
		cents, parseErr := strconv.ParseInt(c.PayoutFlatCents, 10, 64)
		if parseErr != nil {
			return services.PayoutPolicy{}, fmt.Errorf("invalid PAYOUT_FLAT_CENTS %q: %w", c.PayoutFlatCents, parseErr)
		}
		amount, moneyErr := kernel.NewMoneyFromCents(cents)
		if moneyErr != nil {
			return services.PayoutPolicy{}, moneyErr
		}
		return services.NewFlatPolicy(amount)
	case services.PolicyFeeShare:
		percent, parseErr := strconv.ParseInt(c.PayoutFeePercent, 10, 64)
		if parseErr != nil {
			return services.PayoutPolicy{}, fmt.Errorf("invalid PAYOUT_FEE_PERCENT %q: %w", c.PayoutFeePercent, parseErr)
		}
		return services.NewFeeSharePolicy(percent)
	default:
		return services.PayoutPolicy{}, fmt.Errorf("unsupported payout policy %q", name)
	}
}

// DBConnectionString builds the postgres DSN from the configured parts.
func (c Config) DBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

package utils

import (
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetEnvVariable reads an environment variable with a fallback default.
func GetEnvVariable(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func ParseFloatToDecimal(number *float64) *decimal.Decimal {
	if number == nil {
		return nil
	}
	d := decimal.NewFromFloat(*number)
	return &d
}

func ParseStringToUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(s)
	if err != nil || s == "" {
		return uuid.Nil
	}
	return uid
}

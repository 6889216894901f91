package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the matching engine and
// its replay driver.
type Config struct {
	QuantityStep  int64
	PriceStep     int64
	MakerFeeBps   int64
	TakerFeeBps   int64
	SnapshotDepth int
	LogLevel      string
}

// Load reads configuration from environment variables, applies
// defaults, and validates values. It returns an error for any invalid
// value.
func Load() (*Config, error) {
	quantityStep, err := getInt64("QUANTITY_STEP", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid QUANTITY_STEP: %w", err)
	}
	if quantityStep <= 0 {
		return nil, fmt.Errorf("invalid QUANTITY_STEP: must be positive, got %d", quantityStep)
	}

	priceStep, err := getInt64("PRICE_STEP", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_STEP: %w", err)
	}
	if priceStep <= 0 {
		return nil, fmt.Errorf("invalid PRICE_STEP: must be positive, got %d", priceStep)
	}

	makerFeeBps, err := getInt64("MAKER_FEE_BPS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid MAKER_FEE_BPS: %w", err)
	}
	if makerFeeBps < 0 {
		return nil, fmt.Errorf("invalid MAKER_FEE_BPS: must not be negative, got %d", makerFeeBps)
	}

	takerFeeBps, err := getInt64("TAKER_FEE_BPS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid TAKER_FEE_BPS: %w", err)
	}
	if takerFeeBps < 0 {
		return nil, fmt.Errorf("invalid TAKER_FEE_BPS: must not be negative, got %d", takerFeeBps)
	}

	snapshotDepth, err := getInt("SNAPSHOT_DEPTH", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_DEPTH: %w", err)
	}
	if snapshotDepth <= 0 {
		return nil, fmt.Errorf("invalid SNAPSHOT_DEPTH: must be positive, got %d", snapshotDepth)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	return &Config{
		QuantityStep:  quantityStep,
		PriceStep:     priceStep,
		MakerFeeBps:   makerFeeBps,
		TakerFeeBps:   takerFeeBps,
		SnapshotDepth: snapshotDepth,
		LogLevel:      logLevel,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

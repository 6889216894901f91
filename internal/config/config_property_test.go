package config

import (
	"os"
	"strconv"
	"testing"

	"pgregory.net/rapid"
)

var allEnvKeys = []string{
	"QUANTITY_STEP",
	"PRICE_STEP",
	"MAKER_FEE_BPS",
	"TAKER_FEE_BPS",
	"SNAPSHOT_DEPTH",
	"LOG_LEVEL",
}

func unsetAllConfigEnv() {
	for _, key := range allEnvKeys {
		os.Unsetenv(key)
	}
}

func TestProperty_LoadRoundTripsValidValues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		unsetAllConfigEnv()
		defer unsetAllConfigEnv()

		quantityStep := rapid.Int64Range(1, 1_000_000).Draw(t, "quantityStep")
		priceStep := rapid.Int64Range(1, 1_000_000).Draw(t, "priceStep")
		makerFee := rapid.Int64Range(0, 10_000).Draw(t, "makerFee")
		takerFee := rapid.Int64Range(0, 10_000).Draw(t, "takerFee")
		depth := rapid.IntRange(1, 1000).Draw(t, "depth")
		logLevel := rapid.SampledFrom([]string{"debug", "info", "warn", "error"}).Draw(t, "logLevel")

		os.Setenv("QUANTITY_STEP", strconv.FormatInt(quantityStep, 10))
		os.Setenv("PRICE_STEP", strconv.FormatInt(priceStep, 10))
		os.Setenv("MAKER_FEE_BPS", strconv.FormatInt(makerFee, 10))
		os.Setenv("TAKER_FEE_BPS", strconv.FormatInt(takerFee, 10))
		os.Setenv("SNAPSHOT_DEPTH", strconv.Itoa(depth))
		os.Setenv("LOG_LEVEL", logLevel)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned error for valid inputs: %v", err)
		}
		if cfg.QuantityStep != quantityStep {
			t.Fatalf("quantity step: expected %d, got %d", quantityStep, cfg.QuantityStep)
		}
		if cfg.PriceStep != priceStep {
			t.Fatalf("price step: expected %d, got %d", priceStep, cfg.PriceStep)
		}
		if cfg.MakerFeeBps != makerFee || cfg.TakerFeeBps != takerFee {
			t.Fatalf("fees: expected %d/%d, got %d/%d", makerFee, takerFee, cfg.MakerFeeBps, cfg.TakerFeeBps)
		}
		if cfg.SnapshotDepth != depth {
			t.Fatalf("snapshot depth: expected %d, got %d", depth, cfg.SnapshotDepth)
		}
		if cfg.LogLevel != logLevel {
			t.Fatalf("log level: expected %q, got %q", logLevel, cfg.LogLevel)
		}
	})
}

func TestProperty_NonNumericValuesReturnError(t *testing.T) {
	numericKeys := []string{"QUANTITY_STEP", "PRICE_STEP", "MAKER_FEE_BPS", "TAKER_FEE_BPS", "SNAPSHOT_DEPTH"}
	for _, key := range numericKeys {
		t.Run(key, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				unsetAllConfigEnv()
				defer unsetAllConfigEnv()

				invalid := rapid.StringMatching(`[a-zA-Z]{1,10}`).Draw(t, "invalid")
				os.Setenv(key, invalid)

				if _, err := Load(); err == nil {
					t.Fatalf("Load() should return error for %s=%q", key, invalid)
				}
			})
		})
	}
}

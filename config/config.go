package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"
)

// Config holds everything the service reads from the environment.
type Config struct {
	// Server
	Port string

	// Chain
	RPCURL          string
	ChainID         uint64
	ContractAddress string
	RelayerKey      string

	// Chain call gateway
	CallTimeout time.Duration
	CallRetries int

	// Enumeration scan
	ScanMaxTokens        int64
	ScanFailureThreshold int

	// Aggregation
	AggregateBatchSize int

	// Purchase
	ReceiptTimeout time.Duration
	// PricingUnitWei is how many wei one compliance pricing unit is worth.
	PricingUnitWei *big.Int

	// Monitoring
	EnableMetrics bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		RPCURL:          getEnv("RPC_URL", "https://base-sepolia-rpc.publicnode.com"),
		ChainID:         uint64(getEnvAsInt("CHAIN_ID", 84532)),
		ContractAddress: getEnv("TICKETING_CONTRACT_ADDRESS", ""),
		RelayerKey:      getEnv("RELAYER_PRIVATE_KEY", ""),

		CallTimeout: getEnvAsDuration("CALL_TIMEOUT", "15s"),
		CallRetries: getEnvAsInt("CALL_RETRIES", 2),

		ScanMaxTokens:        int64(getEnvAsInt("SCAN_MAX_TOKENS", 256)),
		ScanFailureThreshold: getEnvAsInt("SCAN_FAILURE_THRESHOLD", 3),

		AggregateBatchSize: getEnvAsInt("AGGREGATE_BATCH_SIZE", 5),

		ReceiptTimeout: getEnvAsDuration("RECEIPT_TIMEOUT", "2m"),

		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}

	if cfg.ContractAddress == "" {
		return nil, fmt.Errorf("config: TICKETING_CONTRACT_ADDRESS is required")
	}

	unit, ok := new(big.Int).SetString(getEnv("PRICING_UNIT_WEI", "1000000000000000"), 10)
	if !ok || unit.Sign() <= 0 {
		return nil, fmt.Errorf("config: PRICING_UNIT_WEI must be a positive integer")
	}
	cfg.PricingUnitWei = unit

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

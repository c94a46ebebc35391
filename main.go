package main

import (
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vaios0x/TickMini-sub000/chain"
	"github.com/Vaios0x/TickMini-sub000/config"
	"github.com/Vaios0x/TickMini-sub000/contracts"
	"github.com/Vaios0x/TickMini-sub000/handlers"
	"github.com/Vaios0x/TickMini-sub000/logger"
	"github.com/Vaios0x/TickMini-sub000/purchase"
)

func connectToEthereum(rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum client: %w", err)
	}

	logger.Infof("Successfully connected to Ethereum node at %s", rpcURL)
	return client, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	ethClient, err := connectToEthereum(cfg.RPCURL)
	if err != nil {
		logger.Fatalf("Unable to connect to Ethereum node: %v", err)
	}
	defer ethClient.Close()

	ticketing, err := contracts.NewTicketing(ethClient, cfg.ContractAddress, cfg.CallTimeout, cfg.CallRetries)
	if err != nil {
		logger.Fatalf("Unable to bind ticketing contract: %v", err)
	}

	relayerKey, err := crypto.HexToECDSA(cfg.RelayerKey)
	if err != nil {
		logger.Fatalf("Invalid relayer private key: %v", err)
	}

	chainID := new(big.Int).SetUint64(cfg.ChainID)

	// Read path
	ledger := chain.NewLedger()
	scanner := chain.NewScanner(ticketing, cfg.ScanMaxTokens, cfg.ScanFailureThreshold)
	aggregator := chain.NewAggregator(ticketing, cfg.AggregateBatchSize)
	ticketService := chain.NewService(ticketing, scanner, aggregator, ledger)

	// Write path
	orchestrator := purchase.NewOrchestrator(ticketing, ethClient, relayerKey, ledger, cfg.ReceiptTimeout)

	ticketHandler := handlers.NewTicketHandler(ticketService, chainID)
	purchaseHandler := handlers.NewPurchaseHandler(orchestrator, chainID, cfg.PricingUnitWei)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:3001", "http://localhost:3002"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api/v1")
	{
		// Ticket read path
		api.GET("/tickets/:address", ticketHandler.GetTickets)
		api.POST("/tickets/refresh", ticketHandler.RefreshTickets)

		// Purchase write path
		api.POST("/purchase", purchaseHandler.StartPurchase)
		api.GET("/compliance/preview", purchaseHandler.PreviewCompliance)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"chain_id":  cfg.ChainID,
			"timestamp": time.Now().Unix(),
		})
	})

	if cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	logger.Infof("Server starting on port %s (chain %d, contract %s)", cfg.Port, cfg.ChainID, cfg.ContractAddress)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}

package handlers

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Vaios0x/TickMini-sub000/contracts"
	"github.com/Vaios0x/TickMini-sub000/models"
	"github.com/Vaios0x/TickMini-sub000/purchase"
)

type PurchaseHandler struct {
	orchestrator *purchase.Orchestrator
	chainID      *big.Int
	pricingUnit  decimal.Decimal
}

func NewPurchaseHandler(orchestrator *purchase.Orchestrator, chainID *big.Int, pricingUnitWei *big.Int) *PurchaseHandler {
	return &PurchaseHandler{
		orchestrator: orchestrator,
		chainID:      chainID,
		pricingUnit:  decimal.NewFromBigInt(pricingUnitWei, 0),
	}
}

// StartPurchase is the only write entry point. The compliance payload is
// run through the gate for this attempt's amount before the orchestrator
// may submit anything.
func (h *PurchaseHandler) StartPurchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !common.IsHexAddress(req.Buyer) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid buyer address"})
		return
	}
	priceWei, ok := new(big.Int).SetString(req.PriceWei, 10)
	if !ok || priceWei.Sign() < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price_wei"})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}
	ticketType := req.TicketType
	if ticketType == "" {
		ticketType = models.TicketTypeGeneral
	}

	totalWei := new(big.Int).Mul(priceWei, big.NewInt(int64(req.Quantity)))
	amount := decimal.NewFromBigInt(totalWei, 0).Div(h.pricingUnit)

	gate := purchase.NewComplianceGate(amount, nil)
	result := gate.Evaluate(req.Compliance)

	session := models.Session{
		Address: common.HexToAddress(req.Buyer),
		ChainID: h.chainID,
	}

	attempt, err := h.orchestrator.Start(c.Request.Context(), session, purchase.Request{
		Buyer:          session.Address,
		Event:          req.Event,
		Quantity:       req.Quantity,
		TicketType:     ticketType,
		PriceWei:       priceWei,
		Benefits:       req.Benefits,
		IsTransferable: req.IsTransferable,
		BaseTokenURI:   req.BaseTokenURI,
	}, result)

	if err != nil {
		if errors.Is(err, purchase.ErrComplianceRequired) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Compliance verification incomplete",
				"kyc_level":  result.KYCLevel,
				"attempt":    attempt,
				"compliance": result,
			})
			return
		}
		if contracts.IsTransport(err) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Blockchain connection failed", "attempt": attempt})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Purchase failed", "details": err.Error(), "attempt": attempt})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempt": attempt})
}

// PreviewCompliance tells the compliance UI which steps an amount requires.
func (h *PurchaseHandler) PreviewCompliance(c *gin.Context) {
	amount, err := decimal.NewFromString(c.DefaultQuery("amount", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	gate := purchase.NewComplianceGate(amount, nil)
	required := []string{"fee_disclosure", "kyc"}
	if gate.BiometricRequired() {
		required = append(required, "biometric")
	}

	c.JSON(http.StatusOK, gin.H{
		"amount":         amount.String(),
		"kyc_level":      gate.Result().KYCLevel,
		"required_steps": required,
	})
}

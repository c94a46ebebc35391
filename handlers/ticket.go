package handlers

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/Vaios0x/TickMini-sub000/chain"
	"github.com/Vaios0x/TickMini-sub000/contracts"
	"github.com/Vaios0x/TickMini-sub000/models"
)

type TicketHandler struct {
	service *chain.Service
	chainID *big.Int
}

func NewTicketHandler(service *chain.Service, chainID *big.Int) *TicketHandler {
	return &TicketHandler{
		service: service,
		chainID: chainID,
	}
}

// GetTickets returns the merged ticket view for a wallet address.
func (h *TicketHandler) GetTickets(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	session := models.Session{
		Address: common.HexToAddress(address),
		ChainID: h.chainID,
	}

	tickets, err := h.service.Tickets(c.Request.Context(), session)
	if err != nil {
		if contracts.IsTransport(err) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Blockchain connection failed", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tickets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"count":   len(tickets),
		"tickets": tickets,
	})
}

// RefreshTickets re-runs the on-chain reconstruction for an address. This
// is the explicit refresh entry point; any polling lives outside the
// service.
func (h *TicketHandler) RefreshTickets(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !common.IsHexAddress(req.Address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	session := models.Session{
		Address: common.HexToAddress(req.Address),
		ChainID: h.chainID,
	}

	tickets, err := h.service.Refresh(c.Request.Context(), session)
	if err != nil {
		if contracts.IsTransport(err) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Blockchain connection failed", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh tickets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": req.Address,
		"count":   len(tickets),
		"tickets": tickets,
	})
}

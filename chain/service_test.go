package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vaios0x/TickMini-sub000/models"
)

func setupTestService(reader *fakeReader) *Service {
	return NewService(
		reader,
		NewScanner(reader, 256, 3),
		NewAggregator(reader, 5),
		NewLedger(),
	)
}

func TestService_RefreshReconstructsFromChain(t *testing.T) {
	reader := newFakeReader()
	reader.balance = big.NewInt(2)
	reader.tokensByIndex[0] = big.NewInt(100)
	reader.tokensByIndex[1] = big.NewInt(101)
	reader.addToken(100, 7, testOwner)
	reader.addToken(101, 7, testOwner)

	svc := setupTestService(reader)
	tickets, err := svc.Refresh(context.Background(), session(testOwner))

	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, models.OriginOnChainConfirmed, tickets[0].Origin)
}

func TestService_OptimisticEntrySupersededByConfirmed(t *testing.T) {
	reader := newFakeReader()
	reader.balance = big.NewInt(1)
	reader.tokensByIndex[0] = big.NewInt(100)
	reader.addToken(100, 7, testOwner)

	svc := setupTestService(reader)
	svc.Ledger().Insert(big.NewInt(100), big.NewInt(7), big.NewInt(1000), testOwner, "0xabc", models.EventDisplay{Name: "optimistic"})
	svc.Ledger().Insert(big.NewInt(200), big.NewInt(7), big.NewInt(1000), testOwner, "0xdef", models.EventDisplay{Name: "pending"})

	tickets, err := svc.Refresh(context.Background(), session(testOwner))

	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, models.OriginOnChainConfirmed, tickets[0].Origin, "confirmed copy wins for token 100")
	assert.Equal(t, int64(200), tickets[1].TokenID.Int64())
	assert.Equal(t, models.OriginLocalOptimistic, tickets[1].Origin)
	// the ledger itself never drops entries
	assert.Equal(t, 2, svc.Ledger().Size())
}

func TestService_TicketsSeesInsertsSinceLastRefresh(t *testing.T) {
	reader := newFakeReader()
	reader.balance = big.NewInt(0)

	svc := setupTestService(reader)
	_, err := svc.Refresh(context.Background(), session(testOwner))
	require.NoError(t, err)

	svc.Ledger().Insert(big.NewInt(300), big.NewInt(7), big.NewInt(1000), testOwner, "0x123", models.EventDisplay{})

	tickets, err := svc.Tickets(context.Background(), session(testOwner))
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, int64(300), tickets[0].TokenID.Int64())
}

func TestService_SnapshotsAreScopedPerWallet(t *testing.T) {
	otherWallet := common.HexToAddress("0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC")

	reader := newFakeReader()
	reader.balance = big.NewInt(1)
	reader.tokensByIndex[0] = big.NewInt(100)
	reader.addToken(100, 7, testOwner)

	svc := setupTestService(reader)
	tickets, err := svc.Refresh(context.Background(), session(testOwner))
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	// the other wallet owns nothing; it must never be served the first
	// wallet's snapshot
	reader.balance = big.NewInt(0)
	tickets, err = svc.Tickets(context.Background(), session(otherWallet))
	require.NoError(t, err)
	assert.Empty(t, tickets)

	// and the first wallet's snapshot survives untouched
	tickets, err = svc.Tickets(context.Background(), session(testOwner))
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, int64(100), tickets[0].TokenID.Int64())
}

func TestService_LedgerEntriesOfOtherBuyersStayInvisible(t *testing.T) {
	otherWallet := common.HexToAddress("0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC")

	reader := newFakeReader()
	reader.balance = big.NewInt(0)

	svc := setupTestService(reader)
	svc.Ledger().Insert(big.NewInt(100), big.NewInt(7), big.NewInt(1000), testOwner, "0xabc", models.EventDisplay{})

	tickets, err := svc.Refresh(context.Background(), session(otherWallet))
	require.NoError(t, err)
	assert.Empty(t, tickets, "optimistic purchases of other buyers must not leak")

	tickets, err = svc.Refresh(context.Background(), session(testOwner))
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, testOwner.Hex(), tickets[0].Owner)
}

func TestService_BalanceTransportFailureSurfaces(t *testing.T) {
	reader := newFakeReader()
	reader.balanceErr = transportErr("balanceOf")

	svc := setupTestService(reader)
	_, err := svc.Refresh(context.Background(), session(testOwner))

	assert.Error(t, err)
}

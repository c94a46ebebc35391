package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vaios0x/TickMini-sub000/models"
)

func confirmed(tokenID int64, valid bool) *models.TicketRecord {
	return &models.TicketRecord{
		TokenID: big.NewInt(tokenID),
		IsValid: valid,
		Origin:  models.OriginOnChainConfirmed,
	}
}

func optimistic(tokenID int64) *models.TicketRecord {
	return &models.TicketRecord{
		TokenID: big.NewInt(tokenID),
		IsValid: true,
		Origin:  models.OriginLocalOptimistic,
	}
}

func TestMergeTickets_OnChainWinsInFull(t *testing.T) {
	// The chain says token 100 was already used; the optimistic guess must
	// not resurrect it.
	onChain := []*models.TicketRecord{confirmed(100, false)}
	local := []*models.TicketRecord{optimistic(100)}

	merged := MergeTickets(onChain, local)

	require.Len(t, merged, 1)
	assert.Equal(t, models.OriginOnChainConfirmed, merged[0].Origin)
	assert.False(t, merged[0].IsValid)
}

func TestMergeTickets_Ordering(t *testing.T) {
	onChain := []*models.TicketRecord{confirmed(102, true), confirmed(100, true)}
	local := []*models.TicketRecord{optimistic(100), optimistic(200), optimistic(201)}

	merged := MergeTickets(onChain, local)

	require.Len(t, merged, 4)
	assert.Equal(t, int64(102), merged[0].TokenID.Int64())
	assert.Equal(t, int64(100), merged[1].TokenID.Int64())
	assert.Equal(t, int64(200), merged[2].TokenID.Int64())
	assert.Equal(t, int64(201), merged[3].TokenID.Int64())
}

func TestMergeTickets_Idempotent(t *testing.T) {
	onChain := []*models.TicketRecord{confirmed(100, true), confirmed(101, true)}
	local := []*models.TicketRecord{optimistic(200)}

	once := MergeTickets(onChain, local)
	twice := MergeTickets(once, local)

	require.Len(t, twice, len(once))
	for i := range once {
		assert.Equal(t, once[i].TokenID.String(), twice[i].TokenID.String())
		assert.Equal(t, once[i].Origin, twice[i].Origin)
	}
}

func TestMergeTickets_EmptyInputs(t *testing.T) {
	assert.Empty(t, MergeTickets(nil, nil))

	local := []*models.TicketRecord{optimistic(200)}
	merged := MergeTickets(nil, local)
	require.Len(t, merged, 1)
	assert.Equal(t, models.OriginLocalOptimistic, merged[0].Origin)
}

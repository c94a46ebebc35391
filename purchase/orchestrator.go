package purchase

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/Vaios0x/TickMini-sub000/chain"
	"github.com/Vaios0x/TickMini-sub000/contracts"
	"github.com/Vaios0x/TickMini-sub000/logger"
	"github.com/Vaios0x/TickMini-sub000/models"
	"github.com/Vaios0x/TickMini-sub000/monitoring"
)

// ErrComplianceRequired blocks any attempt whose compliance result is not
// approved. This is a hard precondition of the orchestration logic, not a
// UI affordance.
var ErrComplianceRequired = errors.New("purchase: compliance approval required before submitting transactions")

// TicketContract is the contract surface the orchestrator drives.
// *contracts.Ticketing implements it; tests substitute fakes.
type TicketContract interface {
	ContractAddress() common.Address
	GetEvent(ctx context.Context, eventID *big.Int) (*contracts.EventData, error)
	PackCreateEvent(name, description string, eventDate int64, location string, totalTickets *big.Int, metadataURI string) ([]byte, error)
	PackMintTicket(to common.Address, eventID *big.Int, ticketType uint8, price *big.Int, benefits []string, isTransferable bool, uri string) ([]byte, error)
	PackBatchMintTickets(to common.Address, eventID *big.Int, ticketType uint8, price *big.Int, benefits []string, isTransferable bool, uris []string) ([]byte, error)
	MintedTokenIDs(receipt *types.Receipt) []*big.Int
	CreatedEventID(receipt *types.Receipt) (*big.Int, error)
}

// Request is the domain-typed purchase order handed to Start.
type Request struct {
	Buyer          common.Address
	Event          models.EventInput
	Quantity       int
	TicketType     string
	PriceWei       *big.Int
	Benefits       []string
	IsTransferable bool
	BaseTokenURI   string
}

// Orchestrator drives the purchase write path: compliance gate →
// (conditional) event creation → mint or batch mint → optimistic ledger
// insert. Submitted transactions are irrevocable, so there is no
// cancellation past Minting; errors are terminal per attempt and carried on
// the attempt record since gas may already have been spent.
type Orchestrator struct {
	contract TicketContract
	backend  contracts.TxBackend
	key      *ecdsa.PrivateKey
	from     common.Address
	ledger   *chain.Ledger

	receiptTimeout     time.Duration
	receiptInterval    time.Duration
	fallbackProbeLimit int64
}

func NewOrchestrator(contract TicketContract, backend contracts.TxBackend, key *ecdsa.PrivateKey, ledger *chain.Ledger, receiptTimeout time.Duration) *Orchestrator {
	if receiptTimeout <= 0 {
		receiptTimeout = 2 * time.Minute
	}
	return &Orchestrator{
		contract:           contract,
		backend:            backend,
		key:                key,
		from:               crypto.PubkeyToAddress(key.PublicKey),
		ledger:             ledger,
		receiptTimeout:     receiptTimeout,
		receiptInterval:    2 * time.Second,
		fallbackProbeLimit: 8,
	}
}

// Start runs one purchase attempt end to end. The returned attempt record
// always reflects the step reached and any transaction hashes produced,
// including on failure.
func (o *Orchestrator) Start(ctx context.Context, session models.Session, req Request, compliance models.ComplianceResult) (*models.PurchaseAttempt, error) {
	attempt := &models.PurchaseAttempt{
		ID:        uuid.NewString(),
		State:     models.AttemptAwaitingCompliance,
		StartedAt: time.Now().Unix(),
	}

	kind := "single"
	if req.Quantity > 1 {
		kind = "batch"
	}

	if req.Quantity < 1 || req.PriceWei == nil {
		return o.fail(attempt, kind, fmt.Errorf("purchase: invalid request: quantity %d", req.Quantity))
	}

	if !compliance.Approved {
		attempt.Error = ErrComplianceRequired.Error()
		monitoring.TrackPurchase(kind, "compliance_rejected")
		return attempt, ErrComplianceRequired
	}

	eventID := big.NewInt(req.Event.EventID)
	if req.Event.Template {
		attempt.State = models.AttemptEventCreation
		createdID, txHash, err := o.createEvent(ctx, session, req.Event)
		if err != nil {
			logger.Warnf("purchase %s: event creation failed, using fallback event: %v", attempt.ID, err)
			fallbackID, ferr := o.fallbackEventID(ctx, session, req.Event)
			if ferr != nil {
				return o.fail(attempt, kind, fmt.Errorf("purchase: event creation failed (%v) and fallback failed: %w", err, ferr))
			}
			attempt.UsedFallback = true
			eventID = fallbackID
		} else {
			attempt.EventTxHash = txHash
			eventID = createdID
		}
	}
	attempt.EventID = eventID

	attempt.State = models.AttemptMinting
	uris := tokenURIs(req.BaseTokenURI, req.Quantity)

	// The transaction value must equal the exact sum of per-ticket prices;
	// a mismatch is a contract-level revert this layer does not mask.
	value := new(big.Int).Mul(req.PriceWei, big.NewInt(int64(req.Quantity)))

	typeCode := models.TicketTypeCode(req.TicketType)
	var (
		callData []byte
		err      error
	)
	if req.Quantity == 1 {
		callData, err = o.contract.PackMintTicket(req.Buyer, eventID, typeCode, req.PriceWei, req.Benefits, req.IsTransferable, uris[0])
	} else {
		callData, err = o.contract.PackBatchMintTickets(req.Buyer, eventID, typeCode, req.PriceWei, req.Benefits, req.IsTransferable, uris)
	}
	if err != nil {
		return o.fail(attempt, kind, err)
	}

	receipt, txHash, err := o.submit(ctx, session, callData, value)
	if err != nil {
		// No ledger entries for tokens that were not actually minted.
		return o.fail(attempt, kind, fmt.Errorf("purchase: mint transaction failed: %w", err))
	}
	attempt.MintTxHash = txHash

	tokenIDs := o.contract.MintedTokenIDs(receipt)
	if len(tokenIDs) == 0 {
		return o.fail(attempt, kind, fmt.Errorf("purchase: transaction %s minted no tokens", txHash))
	}

	attempt.State = models.AttemptRecording
	for i, tokenID := range tokenIDs {
		uri := uris[len(uris)-1]
		if i < len(uris) {
			uri = uris[i]
		}
		o.ledger.Insert(tokenID, eventID, req.PriceWei, req.Buyer, txHash, models.EventDisplay{
			Name:           req.Event.Name,
			Description:    req.Event.Description,
			EventDate:      req.Event.EventDate,
			Location:       req.Event.Location,
			TicketType:     models.TicketTypeFromCode(typeCode),
			Benefits:       req.Benefits,
			IsTransferable: req.IsTransferable,
			TokenURI:       uri,
		})
	}
	attempt.TokenIDs = tokenIDs
	attempt.TokenURIs = uris

	attempt.State = models.AttemptDone
	monitoring.TrackPurchase(kind, "ok")
	logger.Infof("purchase %s: minted %d token(s) in tx %s for event %s", attempt.ID, len(tokenIDs), txHash, eventID.String())
	return attempt, nil
}

func (o *Orchestrator) fail(attempt *models.PurchaseAttempt, kind string, err error) (*models.PurchaseAttempt, error) {
	attempt.State = models.AttemptError
	attempt.Error = err.Error()
	monitoring.TrackPurchase(kind, "error")
	logger.Errorf("purchase %s: %v", attempt.ID, err)
	return attempt, err
}

// tokenURIs derives per-item metadata URIs. Batch items get an index suffix
// so two tickets never collide on metadata.
func tokenURIs(base string, quantity int) []string {
	if quantity <= 1 {
		return []string{base}
	}
	uris := make([]string, quantity)
	for i := range uris {
		uris[i] = fmt.Sprintf("%s-%d", base, i+1)
	}
	return uris
}

// createEvent submits the event-creation transaction for a template event
// and extracts the real event id from its receipt.
func (o *Orchestrator) createEvent(ctx context.Context, session models.Session, input models.EventInput) (*big.Int, string, error) {
	totalTickets := input.TotalTickets
	if totalTickets <= 0 {
		totalTickets = 100
	}

	callData, err := o.contract.PackCreateEvent(input.Name, input.Description, input.EventDate, input.Location, big.NewInt(totalTickets), input.MetadataURI)
	if err != nil {
		return nil, "", err
	}

	receipt, txHash, err := o.submit(ctx, session, callData, nil)
	if err != nil {
		return nil, "", fmt.Errorf("createEvent: %w", err)
	}

	eventID, err := o.contract.CreatedEventID(receipt)
	if err != nil {
		return nil, "", fmt.Errorf("createEvent: %w", err)
	}

	logger.Infof("createEvent: event %s created in tx %s", eventID.String(), txHash)
	return eventID, txHash, nil
}

// fallbackEventID provisions an event id when template event creation
// failed: it probes existing events for an active one and, failing that,
// creates a generic active event. Only when both paths fail does the
// purchase attempt error out.
func (o *Orchestrator) fallbackEventID(ctx context.Context, session models.Session, input models.EventInput) (*big.Int, error) {
	for i := int64(1); i <= o.fallbackProbeLimit; i++ {
		event, err := o.contract.GetEvent(ctx, big.NewInt(i))
		if err != nil {
			if contracts.IsRevert(err) {
				// Past the last event.
				break
			}
			continue
		}
		if event.IsActive {
			logger.Infof("fallback: reusing active event %d", i)
			return big.NewInt(i), nil
		}
	}

	generic := models.EventInput{
		Name:         input.Name,
		Description:  input.Description,
		EventDate:    input.EventDate,
		Location:     input.Location,
		TotalTickets: input.TotalTickets,
		MetadataURI:  input.MetadataURI,
	}
	if generic.Name == "" {
		generic.Name = "General Admission"
	}
	if generic.EventDate == 0 {
		generic.EventDate = time.Now().AddDate(0, 1, 0).Unix()
	}

	eventID, _, err := o.createEvent(ctx, session, generic)
	if err != nil {
		return nil, fmt.Errorf("fallback event creation failed: %w", err)
	}
	return eventID, nil
}

// submit signs and sends one transaction and waits for it to mine. Gas
// parameters come from the per-network table when the chain is known;
// otherwise the provider estimates.
func (o *Orchestrator) submit(ctx context.Context, session models.Session, callData []byte, value *big.Int) (*types.Receipt, string, error) {
	if value == nil {
		value = big.NewInt(0)
	}

	nonce, err := o.backend.PendingNonceAt(ctx, o.from)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get pending nonce: %w", err)
	}

	to := o.contract.ContractAddress()
	gasLimit, feeCap, tipCap, err := o.gasParameters(ctx, session, to, callData, value)
	if err != nil {
		return nil, "", err
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   session.ChainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      callData,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(session.ChainID), o.key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := o.backend.SendTransaction(ctx, signed); err != nil {
		return nil, "", fmt.Errorf("failed to send transaction: %w", err)
	}
	txHash := signed.Hash()
	logger.Infof("submitted transaction %s (nonce %d)", txHash.Hex(), nonce)

	receipt, err := o.waitMined(ctx, txHash)
	if err != nil {
		return nil, txHash.Hex(), err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, txHash.Hex(), fmt.Errorf("transaction %s reverted", txHash.Hex())
	}
	return receipt, txHash.Hex(), nil
}

func (o *Orchestrator) gasParameters(ctx context.Context, session models.Session, to common.Address, callData []byte, value *big.Int) (uint64, *big.Int, *big.Int, error) {
	if session.ChainID != nil && session.ChainID.IsUint64() {
		if params, ok := contracts.GasParamsFor(session.ChainID.Uint64()); ok {
			return params.GasLimit, params.FeeCap, params.TipCap, nil
		}
	}

	tipCap, err := o.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to get gas tip cap: %w", err)
	}

	head, err := o.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to get chain head: %w", err)
	}
	feeCap := new(big.Int).Set(tipCap)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	gasLimit, err := o.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  o.from,
		To:    &to,
		Value: value,
		Data:  callData,
	})
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	return gasLimit, feeCap, tipCap, nil
}

// waitMined polls for the transaction receipt until it lands or the wait
// times out.
func (o *Orchestrator) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	deadline := time.Now().Add(o.receiptTimeout)
	for {
		receipt, err := o.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out waiting for transaction %s to mine", txHash.Hex())
		}
		select {
		case <-time.After(o.receiptInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

package engine

import (
	"github.com/basketnetwork/basket-engine/internal/db"
	"github.com/basketnetwork/basket-engine/internal/state"
	log "github.com/sirupsen/logrus"
)

// SwapResult reports the immediately received amount of the target asset
// (in its external units) and the queue position covering any shortfall
type SwapResult struct {
	ReceiptId    string `json:"receipt_id"`
	ReceivedNow  uint64 `json:"received_now"`
	PositionId   uint   `json:"position_id,omitempty"`
	QueuedAmount uint64 `json:"queued_amount,omitempty"`
}

// Deposit pulls externalAmount of asset from owner, credits the reserve and
// mints synthetic 1:1. Newly arrived reserves immediately pay out queued
// redeemers of that asset, most-senior first.
func (e *Engine) Deposit(owner, asset string, externalAmount uint64) (string, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	canonical, err := e.checkDeposit(owner, asset, externalAmount)
	if err != nil {
		return "", 0, err
	}

	if err := e.bank.TransferFrom(asset, EngineAccount, owner, ReserveAccount, externalAmount); err != nil {
		return "", 0, err
	}

	if err := e.creditAndMint(owner, asset, canonical); err != nil {
		return "", 0, err
	}
	if _, err := e.drainAndSettle(asset, canonical, owner); err != nil {
		return "", 0, err
	}

	receiptId := e.journal(db.RECEIPT_KIND_DEPOSIT, owner, asset, externalAmount, canonical, 0)
	e.state.EventBus.Publish(state.DepositReceived, state.DepositEvent{
		User:   owner,
		Asset:  asset,
		Amount: externalAmount,
		Minted: canonical,
	})
	return receiptId, canonical, nil
}

// Withdraw burns amount synthetic from owner and pays out the reserve
// asset. Never queues; insufficient reserves reject the whole call.
func (e *Engine) Withdraw(owner, asset string, amount uint64) (string, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkWithdraw(owner, asset, amount); err != nil {
		return "", 0, err
	}

	externalOut, err := e.payOut(owner, asset, amount)
	if err != nil {
		return "", 0, err
	}

	receiptId := e.journal(db.RECEIPT_KIND_WITHDRAW, owner, asset, amount, externalOut, 0)
	e.state.EventBus.Publish(state.WithdrawCompleted, state.WithdrawEvent{
		User:   owner,
		Asset:  asset,
		Amount: externalOut,
		Burned: amount,
	})
	return receiptId, externalOut, nil
}

// Swap deposits fromAsset and withdraws toAsset in one serialized call.
// With queueIfUnavailable the uncovered remainder becomes a FIFO position;
// without it an uncovered swap is rejected before any leg runs, so the
// deposit and withdraw either both happen or neither does.
func (e *Engine) Swap(owner, fromAsset, toAsset string, externalAmount uint64, queueIfUnavailable bool) (*SwapResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if fromAsset == toAsset {
		return nil, db.ErrSameAssetSwap
	}
	if !e.state.IsSupported(toAsset) {
		return nil, db.ErrUnsupportedAsset
	}
	canonical, err := e.checkDeposit(owner, fromAsset, externalAmount)
	if err != nil {
		return nil, err
	}
	available := e.state.GetReserve(toAsset)
	if canonical > available && !queueIfUnavailable {
		return nil, db.ErrInsufficientReserves
	}

	if err := e.bank.TransferFrom(fromAsset, EngineAccount, owner, ReserveAccount, externalAmount); err != nil {
		return nil, err
	}

	if err := e.creditAndMint(owner, fromAsset, canonical); err != nil {
		return nil, err
	}
	if _, err := e.drainAndSettle(fromAsset, canonical, owner); err != nil {
		return nil, err
	}
	result, err := e.settleTargetLeg(owner, toAsset, canonical, available)
	if err != nil {
		return nil, err
	}

	result.ReceiptId = e.journal(db.RECEIPT_KIND_SWAP, owner, fromAsset+"->"+toAsset, externalAmount, result.ReceivedNow, result.PositionId)
	return result, nil
}

// SwapFromSynthetic redeems owner-held synthetic directly for a reserve
// asset, with the same optional queueing as Swap
func (e *Engine) SwapFromSynthetic(owner, toAsset string, amount uint64, queueIfUnavailable bool) (*SwapResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.IsSupported(toAsset) {
		return nil, db.ErrUnsupportedAsset
	}
	if amount == 0 {
		return nil, db.ErrZeroAmount
	}
	balance, err := e.bank.BalanceOf(syntheticSymbol(), owner)
	if err != nil {
		return nil, err
	}
	if balance < amount {
		return nil, db.ErrInsufficientBalance
	}
	available := e.state.GetReserve(toAsset)
	if amount > available && !queueIfUnavailable {
		return nil, db.ErrInsufficientReserves
	}

	result, err := e.settleTargetLeg(owner, toAsset, amount, available)
	if err != nil {
		return nil, err
	}

	result.ReceiptId = e.journal(db.RECEIPT_KIND_SWAP, owner, syntheticSymbol()+"->"+toAsset, amount, result.ReceivedNow, result.PositionId)
	return result, nil
}

// JoinQueue escrows owner synthetic and appends a redemption position for
// asset at the tail of its FIFO chain
func (e *Engine) JoinQueue(owner, asset string, amount uint64) (string, uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.IsSupported(asset) {
		return "", 0, db.ErrUnsupportedAsset
	}
	if amount == 0 {
		return "", 0, db.ErrZeroAmount
	}
	balance, err := e.bank.BalanceOf(syntheticSymbol(), owner)
	if err != nil {
		return "", 0, err
	}
	if balance < amount {
		return "", 0, db.ErrInsufficientBalance
	}

	positionId, err := e.enqueueWithEscrow(owner, asset, amount)
	if err != nil {
		return "", 0, err
	}

	receiptId := e.journal(db.RECEIPT_KIND_QUEUE_JOIN, owner, asset, amount, 0, positionId)
	return receiptId, positionId, nil
}

// CancelQueue cancels an open position owned by caller and returns the
// escrowed synthetic for its remaining amount
func (e *Engine) CancelQueue(caller string, positionId uint) (string, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	refund, asset, err := e.state.CancelPosition(positionId, caller)
	if err != nil {
		return "", 0, err
	}
	if refund > 0 {
		if err := e.bank.Transfer(syntheticSymbol(), QueueEscrowAccount, caller, refund); err != nil {
			log.Errorf("Engine cancel refund for position %d error: %v", positionId, err)
			return "", 0, err
		}
	}

	receiptId := e.journal(db.RECEIPT_KIND_QUEUE_CANCEL, caller, asset, 0, refund, positionId)
	e.state.EventBus.Publish(state.QueueCancelled, state.QueueCancelledEvent{
		PositionId: positionId,
		Owner:      caller,
		Asset:      asset,
		Refund:     refund,
	})
	return receiptId, refund, nil
}

// checkDeposit runs every deposit-side validation before any transfer
func (e *Engine) checkDeposit(owner, asset string, externalAmount uint64) (uint64, error) {
	if !e.state.IsSupported(asset) {
		return 0, db.ErrUnsupportedAsset
	}
	if externalAmount == 0 {
		return 0, db.ErrZeroAmount
	}
	decimals, err := e.state.AssetDecimals(asset)
	if err != nil {
		return 0, err
	}
	canonical := toCanonical(externalAmount, decimals)
	if canonical == 0 {
		return 0, db.ErrZeroAmount
	}
	allowance, err := e.bank.Allowance(asset, owner, EngineAccount)
	if err != nil {
		return 0, err
	}
	if allowance < externalAmount {
		return 0, db.ErrInsufficientAllowance
	}
	return canonical, nil
}

func (e *Engine) checkWithdraw(owner, asset string, amount uint64) error {
	if !e.state.IsSupported(asset) {
		return db.ErrUnsupportedAsset
	}
	if amount == 0 {
		return db.ErrZeroAmount
	}
	if e.state.GetReserve(asset) < amount {
		return db.ErrInsufficientReserves
	}
	balance, err := e.bank.BalanceOf(syntheticSymbol(), owner)
	if err != nil {
		return err
	}
	if balance < amount {
		return db.ErrInsufficientBalance
	}
	return nil
}

func (e *Engine) creditAndMint(owner, asset string, canonical uint64) error {
	if err := e.state.Credit(asset, canonical); err != nil {
		return err
	}
	return e.bank.Mint(syntheticSymbol(), owner, canonical)
}

// payOut debits the reserve, burns owner synthetic and transfers the asset
// out in its external precision
func (e *Engine) payOut(owner, asset string, canonical uint64) (uint64, error) {
	if err := e.state.Debit(asset, canonical); err != nil {
		return 0, err
	}
	if err := e.bank.Burn(syntheticSymbol(), owner, canonical); err != nil {
		return 0, err
	}
	decimals, err := e.state.AssetDecimals(asset)
	if err != nil {
		return 0, err
	}
	externalOut := toExternal(canonical, decimals)
	if externalOut > 0 {
		if err := e.bank.Transfer(asset, ReserveAccount, owner, externalOut); err != nil {
			return 0, err
		}
	}
	return externalOut, nil
}

// settleTargetLeg withdraws what the target reserve covers now and queues
// the shortfall
func (e *Engine) settleTargetLeg(owner, toAsset string, canonical, available uint64) (*SwapResult, error) {
	result := &SwapResult{}

	receivedNow := canonical
	if receivedNow > available {
		receivedNow = available
	}
	if receivedNow > 0 {
		externalOut, err := e.payOut(owner, toAsset, receivedNow)
		if err != nil {
			return nil, err
		}
		result.ReceivedNow = externalOut
		e.state.EventBus.Publish(state.WithdrawCompleted, state.WithdrawEvent{
			User:   owner,
			Asset:  toAsset,
			Amount: externalOut,
			Burned: receivedNow,
		})
	}

	if shortfall := canonical - receivedNow; shortfall > 0 {
		positionId, err := e.enqueueWithEscrow(owner, toAsset, shortfall)
		if err != nil {
			return nil, err
		}
		result.PositionId = positionId
		result.QueuedAmount = shortfall
	}
	return result, nil
}

func (e *Engine) enqueueWithEscrow(owner, asset string, amount uint64) (uint, error) {
	if err := e.bank.Transfer(syntheticSymbol(), owner, QueueEscrowAccount, amount); err != nil {
		return 0, err
	}
	positionId, err := e.state.Enqueue(asset, owner, amount)
	if err != nil {
		return 0, err
	}
	e.state.EventBus.Publish(state.QueueJoined, state.QueueJoinedEvent{
		User:       owner,
		Asset:      asset,
		PositionId: positionId,
		Amount:     amount,
	})
	return positionId, nil
}

// drainAndSettle pays queued redeemers of asset from newly arrived reserves
// and mints maker/taker rewards for the cleared amount
func (e *Engine) drainAndSettle(asset string, arrived uint64, depositor string) (uint64, error) {
	fills, err := e.state.Drain(asset, arrived)
	if err != nil {
		return 0, err
	}

	var cleared uint64
	decimals, err := e.state.AssetDecimals(asset)
	if err != nil {
		return 0, err
	}
	for _, fill := range fills {
		if err := e.state.Debit(asset, fill.Amount); err != nil {
			return cleared, err
		}
		if err := e.bank.Burn(syntheticSymbol(), QueueEscrowAccount, fill.Amount); err != nil {
			return cleared, err
		}
		externalOut := toExternal(fill.Amount, decimals)
		if externalOut > 0 {
			if err := e.bank.Transfer(asset, ReserveAccount, fill.Owner, externalOut); err != nil {
				return cleared, err
			}
		}
		cleared += fill.Amount

		e.journal(db.RECEIPT_KIND_QUEUE_FILL, fill.Owner, asset, fill.Amount, externalOut, fill.PositionId)
		e.state.EventBus.Publish(state.QueueFilled, state.QueueFilledEvent{
			PositionId: fill.PositionId,
			Owner:      fill.Owner,
			Asset:      asset,
			Amount:     fill.Amount,
			Remaining:  fill.Remaining,
		})
		e.state.EventBus.Publish(state.WithdrawCompleted, state.WithdrawEvent{
			User:   fill.Owner,
			Asset:  asset,
			Amount: externalOut,
			Burned: fill.Amount,
		})

		if err := e.mintMaker(fill); err != nil {
			return cleared, err
		}
	}

	if cleared > 0 {
		if err := e.mintTaker(depositor, cleared); err != nil {
			return cleared, err
		}
	}
	return cleared, nil
}

func (e *Engine) mintMaker(fill state.Fill) error {
	grant, founderGrant, err := e.state.MintMakerReward(fill.Amount, fill.EnqueuedAt, e.state.Now())
	if err != nil {
		return err
	}
	if grant > 0 {
		if err := e.bank.Mint(rewardSymbol(), fill.Owner, grant); err != nil {
			return err
		}
		e.journal(db.RECEIPT_KIND_REWARD, fill.Owner, rewardSymbol(), grant, 0, fill.PositionId)
		e.state.EventBus.Publish(state.RewardMinted, state.RewardMintedEvent{Pool: "maker", To: fill.Owner, Amount: grant})
	}
	return e.mintFounder(founderGrant)
}

func (e *Engine) mintTaker(depositor string, cleared uint64) error {
	grant, founderGrant, err := e.state.MintTakerReward(cleared)
	if err != nil {
		return err
	}
	if grant > 0 {
		if err := e.bank.Mint(rewardSymbol(), depositor, grant); err != nil {
			return err
		}
		e.journal(db.RECEIPT_KIND_REWARD, depositor, rewardSymbol(), grant, 0, 0)
		e.state.EventBus.Publish(state.RewardMinted, state.RewardMintedEvent{Pool: "taker", To: depositor, Amount: grant})
	}
	return e.mintFounder(founderGrant)
}

func (e *Engine) mintFounder(founderGrant uint64) error {
	if founderGrant == 0 {
		return nil
	}
	if err := e.bank.Mint(rewardSymbol(), FounderAccount, founderGrant); err != nil {
		return err
	}
	e.state.EventBus.Publish(state.RewardMinted, state.RewardMintedEvent{Pool: "founder", To: FounderAccount, Amount: founderGrant})
	return nil
}

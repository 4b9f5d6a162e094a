package engine

import (
	"github.com/basketnetwork/basket-engine/internal/config"
	"github.com/basketnetwork/basket-engine/internal/db"
	"github.com/basketnetwork/basket-engine/internal/state"
	log "github.com/sirupsen/logrus"
)

// Stake pulls amount of the reward token from owner into the stake vault
// and grows the staked balance. The power ramp start is kept on top-ups.
func (e *Engine) Stake(owner string, amount uint64) (string, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount == 0 {
		return "", 0, db.ErrZeroAmount
	}
	if account, ok := e.state.GetStakeAccount(owner); ok && account.Status == db.STAKE_STATUS_UNSTAKING {
		return "", 0, db.ErrAlreadyUnstaking
	}
	allowance, err := e.bank.Allowance(rewardSymbol(), owner, EngineAccount)
	if err != nil {
		return "", 0, err
	}
	if allowance < amount {
		return "", 0, db.ErrInsufficientAllowance
	}

	if err := e.bank.TransferFrom(rewardSymbol(), EngineAccount, owner, StakeVaultAccount, amount); err != nil {
		return "", 0, err
	}

	staked, err := e.state.Stake(owner, amount)
	if err != nil {
		// return the pulled tokens so a failed stake leaves no trace
		if refundErr := e.bank.Transfer(rewardSymbol(), StakeVaultAccount, owner, amount); refundErr != nil {
			log.Errorf("Engine stake refund for %s error: %v", owner, refundErr)
		}
		return "", 0, err
	}

	receiptId := e.journal(db.RECEIPT_KIND_STAKE, owner, rewardSymbol(), amount, staked, 0)
	e.state.EventBus.Publish(state.StakedEventType, state.StakedEvent{
		User:     owner,
		Amount:   amount,
		NewPower: e.state.StakePower(owner),
	})
	return receiptId, staked, nil
}

// Unstake starts the cooldown; power is 0 from this instant
func (e *Engine) Unstake(owner string) (string, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	amount, err := e.state.Unstake(owner)
	if err != nil {
		return "", 0, err
	}

	receiptId := e.journal(db.RECEIPT_KIND_UNSTAKE, owner, rewardSymbol(), amount, 0, 0)
	e.state.EventBus.Publish(state.UnstakeInitiated, state.UnstakeInitiatedEvent{
		User:           owner,
		Amount:         amount,
		CompletionTime: e.state.Now().Add(config.AppConfig.UnstakeCooldown),
	})
	return receiptId, amount, nil
}

// CompleteUnstake returns the staked balance to owner's wallet once the
// cooldown has fully elapsed
func (e *Engine) CompleteUnstake(owner string) (string, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	amount, err := e.state.CompleteUnstake(owner)
	if err != nil {
		return "", 0, err
	}
	if err := e.bank.Transfer(rewardSymbol(), StakeVaultAccount, owner, amount); err != nil {
		return "", 0, err
	}

	receiptId := e.journal(db.RECEIPT_KIND_UNSTAKE_COMPLETE, owner, rewardSymbol(), amount, 0, 0)
	e.state.EventBus.Publish(state.UnstakeCompleted, state.UnstakeCompletedEvent{
		User:   owner,
		Amount: amount,
	})
	return receiptId, amount, nil
}

// CancelUnstake keeps the balance staked; the power ramp restarts from zero
func (e *Engine) CancelUnstake(owner string) (string, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	amount, err := e.state.CancelUnstake(owner)
	if err != nil {
		return "", 0, err
	}

	receiptId := e.journal(db.RECEIPT_KIND_UNSTAKE_CANCEL, owner, rewardSymbol(), amount, 0, 0)
	e.state.EventBus.Publish(state.UnstakeCancelled, state.UnstakeCancelledEvent{
		User:   owner,
		Amount: amount,
	})
	return receiptId, amount, nil
}

package state

import (
	"math/big"
	"time"

	"github.com/basketnetwork/basket-engine/internal/config"
	"github.com/basketnetwork/basket-engine/internal/db"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Stake adds amount to the owner's staked balance. Topping up an existing
// stake keeps the original stake-start time, so power keeps ramping over the
// grown balance instead of restarting.
func (s *State) Stake(owner string, amount uint64) (uint64, error) {
	s.stakeMu.Lock()
	defer s.stakeMu.Unlock()

	if amount == 0 {
		return 0, db.ErrZeroAmount
	}

	account, ok := s.stakeState.Accounts[owner]
	if !ok {
		// Reuse a prior row for this owner; a fresh insert would collide
		// with the unique owner index after a completed unstake
		account = &db.StakeAccount{
			Owner:  owner,
			Status: db.STAKE_STATUS_NONE,
		}
		err := s.dbm.GetStakeDB().Where("owner = ?", owner).First(account).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return 0, err
		}
	}
	if account.Status == db.STAKE_STATUS_UNSTAKING {
		return 0, db.ErrAlreadyUnstaking
	}

	if account.Status == db.STAKE_STATUS_NONE {
		account.StakeStart = s.now()
		account.Status = db.STAKE_STATUS_STAKED
	}
	account.Staked += amount
	account.UpdatedAt = s.now()

	if err := s.saveStakeAccount(account); err != nil {
		return 0, err
	}
	s.stakeState.Accounts[owner] = account
	return account.Staked, nil
}

// Unstake starts the cooldown; power drops to 0 at this instant
func (s *State) Unstake(owner string) (uint64, error) {
	s.stakeMu.Lock()
	defer s.stakeMu.Unlock()

	account, ok := s.stakeState.Accounts[owner]
	if !ok || account.Status == db.STAKE_STATUS_NONE || account.Staked == 0 {
		return 0, db.ErrNotStaked
	}
	if account.Status == db.STAKE_STATUS_UNSTAKING {
		return 0, db.ErrAlreadyUnstaking
	}

	unstakeStart := s.now()
	account.UnstakeStart = &unstakeStart
	account.Status = db.STAKE_STATUS_UNSTAKING
	account.UpdatedAt = s.now()

	if err := s.saveStakeAccount(account); err != nil {
		return 0, err
	}
	return account.Staked, nil
}

// CompleteUnstake releases the staked balance after the cooldown has passed
func (s *State) CompleteUnstake(owner string) (uint64, error) {
	s.stakeMu.Lock()
	defer s.stakeMu.Unlock()

	account, ok := s.stakeState.Accounts[owner]
	if !ok || account.Status != db.STAKE_STATUS_UNSTAKING || account.UnstakeStart == nil {
		return 0, db.ErrNotUnstaking
	}
	if s.now().Before(account.UnstakeStart.Add(config.AppConfig.UnstakeCooldown)) {
		return 0, db.ErrCooldownNotComplete
	}

	amount := account.Staked
	account.Staked = 0
	account.UnstakeStart = nil
	account.Status = db.STAKE_STATUS_NONE
	account.UpdatedAt = s.now()

	if err := s.saveStakeAccount(account); err != nil {
		account.Staked = amount
		account.Status = db.STAKE_STATUS_UNSTAKING
		return 0, err
	}
	delete(s.stakeState.Accounts, owner)
	return amount, nil
}

// CancelUnstake returns to Staked; the power ramp restarts from zero
func (s *State) CancelUnstake(owner string) (uint64, error) {
	s.stakeMu.Lock()
	defer s.stakeMu.Unlock()

	account, ok := s.stakeState.Accounts[owner]
	if !ok || account.Status != db.STAKE_STATUS_UNSTAKING {
		return 0, db.ErrNotUnstaking
	}

	account.UnstakeStart = nil
	account.StakeStart = s.now()
	account.Status = db.STAKE_STATUS_STAKED
	account.UpdatedAt = s.now()

	if err := s.saveStakeAccount(account); err != nil {
		return 0, err
	}
	return account.Staked, nil
}

// StakePower computes the time-ramped power: linear to 100% of the staked
// amount over FullPowerDuration, 0 while unstaking or unstaked
func (s *State) StakePower(owner string) uint64 {
	s.stakeMu.RLock()
	defer s.stakeMu.RUnlock()

	return s.powerAt(owner, s.now())
}

// DailyFeeFreeCap is the synthetic amount the owner can redeem per day free
// of reward-token fees, currently 1:1 with power
func (s *State) DailyFeeFreeCap(owner string) uint64 {
	s.stakeMu.RLock()
	defer s.stakeMu.RUnlock()

	return s.powerAt(owner, s.now())
}

// GetStakeAccount returns a copy of the owner's stake record
func (s *State) GetStakeAccount(owner string) (db.StakeAccount, bool) {
	s.stakeMu.RLock()
	defer s.stakeMu.RUnlock()

	account, ok := s.stakeState.Accounts[owner]
	if !ok {
		return db.StakeAccount{Owner: owner, Status: db.STAKE_STATUS_NONE}, false
	}
	return *account, true
}

func (s *State) powerAt(owner string, at time.Time) uint64 {
	account, ok := s.stakeState.Accounts[owner]
	if !ok || account.Status != db.STAKE_STATUS_STAKED || account.Staked == 0 {
		return 0
	}
	elapsed := at.Sub(account.StakeStart)
	full := config.AppConfig.FullPowerDuration
	if elapsed >= full {
		return account.Staked
	}
	if elapsed <= 0 {
		return 0
	}
	// staked * elapsed / full; big.Int since the product exceeds uint64
	power := new(big.Int).SetUint64(account.Staked)
	power.Mul(power, big.NewInt(int64(elapsed)))
	power.Div(power, big.NewInt(int64(full)))
	return power.Uint64()
}

func (s *State) saveStakeAccount(account *db.StakeAccount) error {
	result := s.dbm.GetStakeDB().Save(account)
	if result.Error != nil {
		log.Errorf("State saveStakeAccount %s error: %v", account.Owner, result.Error)
		return result.Error
	}
	return nil
}

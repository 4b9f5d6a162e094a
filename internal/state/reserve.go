package state

import (
	"github.com/basketnetwork/basket-engine/internal/db"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Credit increases reserve[asset] and the synthetic supply by amount.
// Balance and supply move together in one DB transaction, memory is updated
// only after the transaction commits.
func (s *State) Credit(asset string, amount uint64) error {
	s.reserveMu.Lock()
	defer s.reserveMu.Unlock()

	reserve, err := s.supportedReserve(asset)
	if err != nil {
		return err
	}
	if amount == 0 {
		return db.ErrZeroAmount
	}

	newBalance := reserve.Balance + amount
	newSupply := s.reserveState.Supply.TotalSupply + amount
	if err := s.persistReserve(reserve, newBalance, newSupply); err != nil {
		return err
	}

	reserve.Balance = newBalance
	s.reserveState.Supply.TotalSupply = newSupply
	return nil
}

// Debit decreases reserve[asset] and burns the same synthetic amount
func (s *State) Debit(asset string, amount uint64) error {
	s.reserveMu.Lock()
	defer s.reserveMu.Unlock()

	reserve, err := s.supportedReserve(asset)
	if err != nil {
		return err
	}
	if amount == 0 {
		return db.ErrZeroAmount
	}
	if reserve.Balance < amount {
		return db.ErrInsufficientReserves
	}

	newBalance := reserve.Balance - amount
	newSupply := s.reserveState.Supply.TotalSupply - amount
	if err := s.persistReserve(reserve, newBalance, newSupply); err != nil {
		return err
	}

	reserve.Balance = newBalance
	s.reserveState.Supply.TotalSupply = newSupply
	return nil
}

// IsSupported reports whether the asset is a registered reserve asset
func (s *State) IsSupported(asset string) bool {
	s.reserveMu.RLock()
	defer s.reserveMu.RUnlock()

	a, ok := s.reserveState.Assets[asset]
	return ok && a.Supported
}

// AssetDecimals returns the external decimal precision of a registered asset
func (s *State) AssetDecimals(asset string) (uint8, error) {
	s.reserveMu.RLock()
	defer s.reserveMu.RUnlock()

	a, ok := s.reserveState.Assets[asset]
	if !ok || !a.Supported {
		return 0, db.ErrUnsupportedAsset
	}
	return a.Decimals, nil
}

// GetReserve reads a single asset balance, 0 for unknown assets
func (s *State) GetReserve(asset string) uint64 {
	s.reserveMu.RLock()
	defer s.reserveMu.RUnlock()

	if reserve, ok := s.reserveState.Reserves[asset]; ok {
		return reserve.Balance
	}
	return 0
}

// GetReserves returns a copy of all reserve balances
func (s *State) GetReserves() map[string]uint64 {
	s.reserveMu.RLock()
	defer s.reserveMu.RUnlock()

	balances := make(map[string]uint64, len(s.reserveState.Reserves))
	for asset, reserve := range s.reserveState.Reserves {
		balances[asset] = reserve.Balance
	}
	return balances
}

// TotalReserves sums all reserve balances in synthetic units
func (s *State) TotalReserves() uint64 {
	s.reserveMu.RLock()
	defer s.reserveMu.RUnlock()

	var total uint64
	for _, reserve := range s.reserveState.Reserves {
		total += reserve.Balance
	}
	return total
}

// SyntheticSupply reads the synthetic token total supply
func (s *State) SyntheticSupply() uint64 {
	s.reserveMu.RLock()
	defer s.reserveMu.RUnlock()

	return s.reserveState.Supply.TotalSupply
}

func (s *State) supportedReserve(asset string) (*db.Reserve, error) {
	a, ok := s.reserveState.Assets[asset]
	if !ok || !a.Supported {
		return nil, db.ErrUnsupportedAsset
	}
	reserve, ok := s.reserveState.Reserves[asset]
	if !ok {
		return nil, db.ErrUnsupportedAsset
	}
	return reserve, nil
}

func (s *State) persistReserve(reserve *db.Reserve, newBalance, newSupply uint64) error {
	err := s.dbm.GetLedgerDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Reserve{}).Where("id = ?", reserve.ID).
			Updates(map[string]interface{}{"balance": newBalance, "updated_at": s.now()}).Error; err != nil {
			return err
		}
		return tx.Model(&db.SyntheticSupply{}).Where("id = ?", s.reserveState.Supply.ID).
			Updates(map[string]interface{}{"total_supply": newSupply, "updated_at": s.now()}).Error
	})
	if err != nil {
		log.Errorf("State persistReserve %s error: %v", reserve.Asset, err)
		return err
	}
	return nil
}

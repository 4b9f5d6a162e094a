package state

import (
	"github.com/basketnetwork/basket-engine/internal/db"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Enqueue appends a new Active position at the tail of the asset's FIFO
// chain and returns its monotonic id
func (s *State) Enqueue(asset, owner string, amount uint64) (uint, error) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	if amount == 0 {
		return 0, db.ErrZeroAmount
	}

	position := &db.QueuePosition{
		Owner:     owner,
		Asset:     asset,
		Remaining: amount,
		Filled:    0,
		Status:    db.QUEUE_STATUS_ACTIVE,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.dbm.GetLedgerDB().Create(position).Error; err != nil {
		log.Errorf("State enqueue position for %s error: %v", asset, err)
		return 0, err
	}

	s.queueState.Chains[asset] = append(s.queueState.Chains[asset], position)
	return position.ID, nil
}

// Drain fills open positions for asset in strict id order until available
// is exhausted. Partially consumed positions keep their id and their place
// in line. Returns the exact per-position filled amounts.
func (s *State) Drain(asset string, available uint64) ([]Fill, error) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	chain := s.queueState.Chains[asset]
	if available == 0 || len(chain) == 0 {
		return nil, nil
	}

	var fills []Fill
	var touched []*db.QueuePosition
	for _, position := range chain {
		if available == 0 {
			break
		}
		fill := position.Remaining
		if fill > available {
			fill = available
		}
		position.Remaining -= fill
		position.Filled += fill
		if position.Remaining == 0 {
			position.Status = db.QUEUE_STATUS_FILLED
		} else {
			position.Status = db.QUEUE_STATUS_PARTIAL
		}
		position.UpdatedAt = s.now()
		available -= fill

		touched = append(touched, position)
		fills = append(fills, Fill{
			PositionId: position.ID,
			Owner:      position.Owner,
			Asset:      position.Asset,
			Amount:     fill,
			Remaining:  position.Remaining,
			EnqueuedAt: position.CreatedAt,
		})
	}

	err := s.dbm.GetLedgerDB().Transaction(func(tx *gorm.DB) error {
		for _, position := range touched {
			if err := tx.Save(position).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Roll the in-memory mutation back so memory and DB stay aligned
		for i, position := range touched {
			position.Remaining += fills[i].Amount
			position.Filled -= fills[i].Amount
			if position.Filled == 0 {
				position.Status = db.QUEUE_STATUS_ACTIVE
			} else {
				position.Status = db.QUEUE_STATUS_PARTIAL
			}
		}
		log.Errorf("State drain %s error: %v", asset, err)
		return nil, err
	}

	// Drop fully filled positions from the head of the chain
	remaining := chain[:0]
	for _, position := range chain {
		if position.Status == db.QUEUE_STATUS_ACTIVE || position.Status == db.QUEUE_STATUS_PARTIAL {
			remaining = append(remaining, position)
		}
	}
	s.queueState.Chains[asset] = remaining

	return fills, nil
}

// CancelPosition marks an open position Cancelled and returns its remaining
// amount and asset; terminal and unknown positions report PositionNotFound
func (s *State) CancelPosition(positionId uint, caller string) (uint64, string, error) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	position, chainIndex := s.findOpenPosition(positionId)
	if position == nil {
		return 0, "", db.ErrPositionNotFound
	}
	if position.Owner != caller {
		return 0, "", db.ErrNotOwner
	}

	refund := position.Remaining
	position.Remaining = 0
	position.Status = db.QUEUE_STATUS_CANCELLED
	position.UpdatedAt = s.now()

	if err := s.dbm.GetLedgerDB().Save(position).Error; err != nil {
		position.Remaining = refund
		if position.Filled > 0 {
			position.Status = db.QUEUE_STATUS_PARTIAL
		} else {
			position.Status = db.QUEUE_STATUS_ACTIVE
		}
		log.Errorf("State cancel position %d error: %v", positionId, err)
		return 0, "", err
	}

	chain := s.queueState.Chains[position.Asset]
	s.queueState.Chains[position.Asset] = append(chain[:chainIndex], chain[chainIndex+1:]...)

	return refund, position.Asset, nil
}

// Depth sums the remaining amounts of all open positions for the asset
func (s *State) Depth(asset string) uint64 {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()

	var depth uint64
	for _, position := range s.queueState.Chains[asset] {
		depth += position.Remaining
	}
	return depth
}

// PositionInfo reports the amount queued strictly ahead of the position and
// its 1-based line number in the asset's chain
func (s *State) PositionInfo(positionId uint) (uint64, int, error) {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()

	position, chainIndex := s.findOpenPosition(positionId)
	if position == nil {
		return 0, 0, db.ErrPositionNotFound
	}

	var amountAhead uint64
	for _, ahead := range s.queueState.Chains[position.Asset][:chainIndex] {
		amountAhead += ahead.Remaining
	}
	return amountAhead, chainIndex + 1, nil
}

// GetPosition reads a position record by id, terminal positions included
func (s *State) GetPosition(positionId uint) (*db.QueuePosition, error) {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()

	var position db.QueuePosition
	result := s.dbm.GetLedgerDB().Where("id = ?", positionId).First(&position)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, db.ErrPositionNotFound
		}
		return nil, result.Error
	}
	return &position, nil
}

// GetPositionsByOwner lists all of an owner's positions, newest first
func (s *State) GetPositionsByOwner(owner string) ([]*db.QueuePosition, error) {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()

	var positions []*db.QueuePosition
	result := s.dbm.GetLedgerDB().Where("owner = ?", owner).Order("id desc").Find(&positions)
	if result.Error != nil {
		return nil, result.Error
	}
	return positions, nil
}

func (s *State) findOpenPosition(positionId uint) (*db.QueuePosition, int) {
	for _, chain := range s.queueState.Chains {
		for i, position := range chain {
			if position.ID == positionId {
				return position, i
			}
		}
	}
	return nil, 0
}

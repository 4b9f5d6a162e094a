package state

import (
	"math/big"
	"time"

	"github.com/basketnetwork/basket-engine/internal/config"
	log "github.com/sirupsen/logrus"
)

const (
	bpsDenominator = 10_000
	secondsPerYear = 365 * 24 * 3600
)

// MintMakerReward accrues the annualized maker rate on a filled queue amount
// for the time it waited in line, capped by the remaining maker pool.
// Returns the maker grant and the founder units vested alongside it.
func (s *State) MintMakerReward(filled uint64, enqueuedAt, filledAt time.Time) (uint64, uint64, error) {
	s.emissionMu.Lock()
	defer s.emissionMu.Unlock()

	grant := makerAccrual(filled, config.AppConfig.MakerAprBps, filledAt.Sub(enqueuedAt))
	if headroom := poolHeadroom(config.AppConfig.MakerCap, s.emissionState.MakerMinted); grant > headroom {
		grant = headroom
	}
	if grant == 0 {
		return 0, 0, nil
	}

	makerMinted := s.emissionState.MakerMinted + grant
	founderVested, founderGrant := s.founderLockstep(makerMinted, s.emissionState.TakerMinted)
	if err := s.persistEmission(makerMinted, s.emissionState.TakerMinted, founderVested); err != nil {
		return 0, 0, err
	}
	s.emissionState.MakerMinted = makerMinted
	s.emissionState.FounderVested = founderVested
	return grant, founderGrant, nil
}

// MintTakerReward mints the flat-bps fee equivalent on a cleared queue
// amount to the depositor that caused the drain, capped by the taker pool
func (s *State) MintTakerReward(cleared uint64) (uint64, uint64, error) {
	s.emissionMu.Lock()
	defer s.emissionMu.Unlock()

	grant := takerFee(cleared, config.AppConfig.TakerFeeBps)
	if headroom := poolHeadroom(config.AppConfig.TakerCap, s.emissionState.TakerMinted); grant > headroom {
		grant = headroom
	}
	if grant == 0 {
		return 0, 0, nil
	}

	takerMinted := s.emissionState.TakerMinted + grant
	founderVested, founderGrant := s.founderLockstep(s.emissionState.MakerMinted, takerMinted)
	if err := s.persistEmission(s.emissionState.MakerMinted, takerMinted, founderVested); err != nil {
		return 0, 0, err
	}
	s.emissionState.TakerMinted = takerMinted
	s.emissionState.FounderVested = founderVested
	return grant, founderGrant, nil
}

// EmissionCounters returns the caps and minted counters of all three pools
func (s *State) EmissionCounters() EmissionSnapshot {
	s.emissionMu.RLock()
	defer s.emissionMu.RUnlock()

	return EmissionSnapshot{
		MakerCap:      config.AppConfig.MakerCap,
		MakerMinted:   s.emissionState.MakerMinted,
		TakerCap:      config.AppConfig.TakerCap,
		TakerMinted:   s.emissionState.TakerMinted,
		FounderCap:    config.AppConfig.FounderCap,
		FounderVested: s.emissionState.FounderVested,
		TotalMinted:   s.emissionState.MakerMinted + s.emissionState.TakerMinted + s.emissionState.FounderVested,
	}
}

// founderLockstep vests 1 founder unit per 4 combined user-reward units,
// capped by the founder pool. Returns the new vested total and the delta.
func (s *State) founderLockstep(makerMinted, takerMinted uint64) (uint64, uint64) {
	target := (makerMinted + takerMinted) / 4
	if target > config.AppConfig.FounderCap {
		target = config.AppConfig.FounderCap
	}
	if target <= s.emissionState.FounderVested {
		return s.emissionState.FounderVested, 0
	}
	return target, target - s.emissionState.FounderVested
}

// poolHeadroom never underflows, even if a cap is reconfigured below the
// already persisted minted counter
func poolHeadroom(limit, minted uint64) uint64 {
	if minted >= limit {
		return 0
	}
	return limit - minted
}

// takerFee = cleared * feeBps/10000; the product can exceed uint64
func takerFee(cleared, feeBps uint64) uint64 {
	fee := new(big.Int).SetUint64(cleared)
	fee.Mul(fee, new(big.Int).SetUint64(feeBps))
	fee.Div(fee, big.NewInt(bpsDenominator))
	return fee.Uint64()
}

// makerAccrual = filled * aprBps/10000 * held/year, integer arithmetic
func makerAccrual(filled, aprBps uint64, held time.Duration) uint64 {
	if filled == 0 || held <= 0 {
		return 0
	}
	reward := new(big.Int).SetUint64(filled)
	reward.Mul(reward, new(big.Int).SetUint64(aprBps))
	reward.Mul(reward, big.NewInt(int64(held/time.Second)))
	reward.Div(reward, big.NewInt(bpsDenominator*secondsPerYear))
	return reward.Uint64()
}

func (s *State) persistEmission(makerMinted, takerMinted, founderVested uint64) error {
	err := s.dbm.GetLedgerDB().Model(s.emissionState).
		Updates(map[string]interface{}{
			"maker_minted":   makerMinted,
			"taker_minted":   takerMinted,
			"founder_vested": founderVested,
			"updated_at":     s.now(),
		}).Error
	if err != nil {
		log.Errorf("State persistEmission error: %v", err)
		return err
	}
	return nil
}

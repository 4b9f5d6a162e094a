package state

import (
	"sync"
	"time"

	"github.com/basketnetwork/basket-engine/internal/config"
	"github.com/basketnetwork/basket-engine/internal/db"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type State struct {
	EventBus *EventBus

	dbm *db.DatabaseManager
	now func() time.Time

	// Separate mutexes for different sub-ledgers
	reserveMu  sync.RWMutex
	queueMu    sync.RWMutex
	stakeMu    sync.RWMutex
	emissionMu sync.RWMutex

	reserveState  ReserveState
	queueState    QueueState
	stakeState    StakeState
	emissionState *db.EmissionState
}

// InitializeState registers the configured assets and reloads reserves, open
// queue positions, stake accounts and emission counters from the DB
func InitializeState(dbm *db.DatabaseManager) *State {
	var (
		assets        []*db.Asset
		reserves      []*db.Reserve
		supply        db.SyntheticSupply
		openPositions []*db.QueuePosition
		stakeAccounts []*db.StakeAccount
		emission      db.EmissionState
	)

	ledgerDb := dbm.GetLedgerDB()
	stakeDb := dbm.GetStakeDB()

	for _, spec := range config.AppConfig.SupportedAssets {
		asset := db.Asset{Symbol: spec.Symbol, Decimals: spec.Decimals, Supported: true, UpdatedAt: time.Now()}
		if err := ledgerDb.Where(db.Asset{Symbol: spec.Symbol}).FirstOrCreate(&asset).Error; err != nil {
			log.Fatalf("Failed to register asset %s: %v", spec.Symbol, err)
		}
		reserve := db.Reserve{Asset: spec.Symbol, Balance: 0, UpdatedAt: time.Now()}
		if err := ledgerDb.Where(db.Reserve{Asset: spec.Symbol}).FirstOrCreate(&reserve).Error; err != nil {
			log.Fatalf("Failed to create reserve row for %s: %v", spec.Symbol, err)
		}
	}

	loadData := func(tx *gorm.DB, dest interface{}, query string, args ...interface{}) {
		if err := tx.Where(query, args...).Find(dest).Error; err != nil {
			log.Warnf("Failed to load data: %v", err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		loadData(ledgerDb, &assets, "supported = ?", true)
		loadData(ledgerDb, &reserves, "")
	}()

	go func() {
		defer wg.Done()
		if err := ledgerDb.First(&supply).Error; err != nil {
			log.Warnf("Failed to load synthetic supply: %v", err)

			supply = db.SyntheticSupply{
				TotalSupply: 0,
				UpdatedAt:   time.Now(),
			}
			if err := ledgerDb.Create(&supply).Error; err != nil {
				log.Fatalf("Failed to create synthetic supply row: %v", err)
			}
		}
	}()

	go func() {
		defer wg.Done()
		if err := ledgerDb.Where("status in (?)", []string{db.QUEUE_STATUS_ACTIVE, db.QUEUE_STATUS_PARTIAL}).
			Order("id asc").Find(&openPositions).Error; err != nil {
			log.Warnf("Failed to load open queue positions: %v", err)
		}
	}()

	go func() {
		defer wg.Done()
		loadData(stakeDb, &stakeAccounts, "status <> ?", db.STAKE_STATUS_NONE)
	}()

	go func() {
		defer wg.Done()
		if err := ledgerDb.First(&emission).Error; err != nil {
			log.Warnf("Failed to load emission state: %v", err)

			emission = db.EmissionState{
				MakerMinted:   0,
				TakerMinted:   0,
				FounderVested: 0,
				UpdatedAt:     time.Now(),
			}
			if err := ledgerDb.Create(&emission).Error; err != nil {
				log.Fatalf("Failed to create emission state row: %v", err)
			}
		}
	}()

	wg.Wait()

	assetMap := make(map[string]*db.Asset, len(assets))
	for _, asset := range assets {
		assetMap[asset.Symbol] = asset
	}
	reserveMap := make(map[string]*db.Reserve, len(reserves))
	for _, reserve := range reserves {
		reserveMap[reserve.Asset] = reserve
	}
	chains := make(map[string][]*db.QueuePosition)
	for _, position := range openPositions {
		chains[position.Asset] = append(chains[position.Asset], position)
	}
	accounts := make(map[string]*db.StakeAccount, len(stakeAccounts))
	for _, account := range stakeAccounts {
		accounts[account.Owner] = account
	}

	log.Infof("State init on startup, %d assets, supply %d, %d open positions, %d stake accounts",
		len(assetMap), supply.TotalSupply, len(openPositions), len(accounts))

	return &State{
		EventBus: NewEventBus(),

		dbm: dbm,
		now: time.Now,

		reserveState: ReserveState{
			Assets:   assetMap,
			Reserves: reserveMap,
			Supply:   &supply,
		},
		queueState: QueueState{
			Chains: chains,
		},
		stakeState: StakeState{
			Accounts: accounts,
		},
		emissionState: &emission,
	}
}

// SetClock overrides the time source, used by tests to move time
func (s *State) SetClock(now func() time.Time) {
	s.now = now
}

func (s *State) Now() time.Time {
	return s.now()
}

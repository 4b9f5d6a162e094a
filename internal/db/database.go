package db

import (
	"os"
	"path/filepath"

	"github.com/basketnetwork/basket-engine/internal/config"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DatabaseManager struct {
	ledgerDb *gorm.DB
	stakeDb  *gorm.DB
	tokenDb  *gorm.DB
}

func NewDatabaseManager() *DatabaseManager {
	dm := &DatabaseManager{}
	dm.initDB()
	return dm
}

func (dm *DatabaseManager) initDB() {
	dbDir := config.AppConfig.DbDir
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	ledgerPath := filepath.Join(dbDir, "ledger.db")
	ledgerDb, err := gorm.Open(sqlite.Open(ledgerPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to ledger database: %v", err)
	}
	dm.ledgerDb = ledgerDb
	log.Debugf("Ledger database connected successfully, path: %s", ledgerPath)

	stakePath := filepath.Join(dbDir, "stake.db")
	stakeDb, err := gorm.Open(sqlite.Open(stakePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to stake database: %v", err)
	}
	dm.stakeDb = stakeDb
	log.Debugf("Stake database connected successfully, path: %s", stakePath)

	tokenPath := filepath.Join(dbDir, "token.db")
	tokenDb, err := gorm.Open(sqlite.Open(tokenPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to token database: %v", err)
	}
	dm.tokenDb = tokenDb
	log.Debugf("Token database connected successfully, path: %s", tokenPath)

	dm.autoMigrate()
	log.Debugf("Database migration completed successfully")
}

func (dm *DatabaseManager) autoMigrate() {
	if err := dm.ledgerDb.AutoMigrate(&Asset{}, &Reserve{}, &SyntheticSupply{}, &QueuePosition{}, &EmissionState{}, &Receipt{}); err != nil {
		log.Fatalf("Failed to migrate ledger database: %v", err)
	}
	if err := dm.stakeDb.AutoMigrate(&StakeAccount{}); err != nil {
		log.Fatalf("Failed to migrate stake database: %v", err)
	}
	if err := dm.tokenDb.AutoMigrate(&TokenBalance{}, &TokenAllowance{}); err != nil {
		log.Fatalf("Failed to migrate token database: %v", err)
	}
}

func (dm *DatabaseManager) GetLedgerDB() *gorm.DB {
	return dm.ledgerDb
}

func (dm *DatabaseManager) GetStakeDB() *gorm.DB {
	return dm.stakeDb
}

func (dm *DatabaseManager) GetTokenDB() *gorm.DB {
	return dm.tokenDb
}

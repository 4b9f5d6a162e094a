package token

import (
	"sync"
	"time"

	"github.com/basketnetwork/basket-engine/internal/db"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Ledger is the external fungible-token contract the engine consumes for
// every asset, including the synthetic and reward tokens. Mint and Burn of
// the synthetic/reward tokens are only ever invoked by the engine itself.
type Ledger interface {
	BalanceOf(token, account string) (uint64, error)
	Allowance(token, owner, spender string) (uint64, error)
	Approve(token, owner, spender string, amount uint64) error
	Transfer(token, from, to string, amount uint64) error
	TransferFrom(token, spender, owner, to string, amount uint64) error
	Mint(token, to string, amount uint64) error
	Burn(token, from string, amount uint64) error
}

type Bank struct {
	mu  sync.Mutex
	dbm *db.DatabaseManager
}

var _ Ledger = (*Bank)(nil)

func NewBank(dbm *db.DatabaseManager) *Bank {
	return &Bank{dbm: dbm}
}

func (b *Bank) BalanceOf(token, account string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	balance, err := b.getBalance(nil, token, account)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return balance.Balance, nil
}

func (b *Bank) Allowance(token, owner, spender string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	allowance, err := b.getAllowance(nil, token, owner, spender)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return allowance.Amount, nil
}

func (b *Bank) Approve(token, owner, spender string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	allowance, err := b.getAllowance(nil, token, owner, spender)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == gorm.ErrRecordNotFound {
		allowance = &db.TokenAllowance{
			Token:   token,
			Owner:   owner,
			Spender: spender,
		}
	}
	allowance.Amount = amount
	allowance.UpdatedAt = time.Now()
	return b.save(allowance)
}

func (b *Bank) Transfer(token, from, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if amount == 0 {
		return db.ErrZeroAmount
	}
	return b.dbm.GetTokenDB().Transaction(func(tx *gorm.DB) error {
		return b.move(tx, token, from, to, amount)
	})
}

// TransferFrom pulls owner's funds into `to` using spender's allowance
func (b *Bank) TransferFrom(token, spender, owner, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if amount == 0 {
		return db.ErrZeroAmount
	}
	return b.dbm.GetTokenDB().Transaction(func(tx *gorm.DB) error {
		allowance, err := b.getAllowance(tx, token, owner, spender)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return db.ErrInsufficientAllowance
			}
			return err
		}
		if allowance.Amount < amount {
			return db.ErrInsufficientAllowance
		}
		if err := b.move(tx, token, owner, to, amount); err != nil {
			return err
		}
		allowance.Amount -= amount
		allowance.UpdatedAt = time.Now()
		return tx.Save(allowance).Error
	})
}

func (b *Bank) Mint(token, to string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if amount == 0 {
		return db.ErrZeroAmount
	}
	return b.dbm.GetTokenDB().Transaction(func(tx *gorm.DB) error {
		return b.addBalance(tx, token, to, amount)
	})
}

func (b *Bank) Burn(token, from string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if amount == 0 {
		return db.ErrZeroAmount
	}
	return b.dbm.GetTokenDB().Transaction(func(tx *gorm.DB) error {
		return b.subBalance(tx, token, from, amount)
	})
}

func (b *Bank) move(tx *gorm.DB, token, from, to string, amount uint64) error {
	if err := b.subBalance(tx, token, from, amount); err != nil {
		return err
	}
	return b.addBalance(tx, token, to, amount)
}

func (b *Bank) addBalance(tx *gorm.DB, token, account string, amount uint64) error {
	balance, err := b.getBalance(tx, token, account)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == gorm.ErrRecordNotFound {
		balance = &db.TokenBalance{
			Token:   token,
			Account: account,
		}
	}
	balance.Balance += amount
	balance.UpdatedAt = time.Now()
	return tx.Save(balance).Error
}

func (b *Bank) subBalance(tx *gorm.DB, token, account string, amount uint64) error {
	balance, err := b.getBalance(tx, token, account)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return db.ErrInsufficientBalance
		}
		return err
	}
	if balance.Balance < amount {
		return db.ErrInsufficientBalance
	}
	balance.Balance -= amount
	balance.UpdatedAt = time.Now()
	return tx.Save(balance).Error
}

func (b *Bank) getBalance(tx *gorm.DB, token, account string) (*db.TokenBalance, error) {
	if tx == nil {
		tx = b.dbm.GetTokenDB()
	}
	var balance db.TokenBalance
	result := tx.Where("token=? and account=?", token, account).First(&balance)
	if result.Error != nil {
		return nil, result.Error
	}
	return &balance, nil
}

func (b *Bank) getAllowance(tx *gorm.DB, token, owner, spender string) (*db.TokenAllowance, error) {
	if tx == nil {
		tx = b.dbm.GetTokenDB()
	}
	var allowance db.TokenAllowance
	result := tx.Where("token=? and owner=? and spender=?", token, owner, spender).First(&allowance)
	if result.Error != nil {
		return nil, result.Error
	}
	return &allowance, nil
}

func (b *Bank) save(value interface{}) error {
	result := b.dbm.GetTokenDB().Save(value)
	if result.Error != nil {
		log.Errorf("Bank save error: %v", result.Error)
		return result.Error
	}
	return nil
}

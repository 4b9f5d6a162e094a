package db

import "errors"

// Engine error taxonomy. Every rejected operation maps to one of these and
// leaves all ledgers untouched; none is retried internally.
var (
	ErrUnsupportedAsset      = errors.New("unsupported asset")
	ErrZeroAmount            = errors.New("zero amount")
	ErrInsufficientReserves  = errors.New("insufficient reserves")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrPositionNotFound      = errors.New("position not found")
	ErrNotOwner              = errors.New("not position owner")
	ErrNotStaked             = errors.New("not staked")
	ErrAlreadyUnstaking      = errors.New("already unstaking")
	ErrCooldownNotComplete   = errors.New("unstake cooldown not complete")
	ErrNotUnstaking          = errors.New("not unstaking")
	ErrSameAssetSwap         = errors.New("swap assets must differ")
)

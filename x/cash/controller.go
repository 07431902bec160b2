package cash

import (
	"math"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// Controller is the functionality needed by other extensions to move value
// between accounts.
type Controller interface {
	// Balance returns the amount held by given address. An unknown
	// address holds nothing.
	Balance(db vault.ReadOnlyKVStore, addr vault.Address) (int64, error)

	// MoveCoins moves the given amount from src to dest.
	// If src does not have sufficient funds, it fails.
	MoveCoins(db vault.KVStore, src, dest vault.Address, amount int64) error

	// Issue adds the given amount to the destination address. Fails if it
	// overflows the balance.
	Issue(db vault.KVStore, dest vault.Address, amount int64) error
}

// BaseController is a simple implementation of Controller.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Balance(db vault.ReadOnlyKVStore, addr vault.Address) (int64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	var b Balance
	switch err := c.bucket.One(db, addr, &b); {
	case err == nil:
		return b.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "cannot load balance")
	}
}

func (c BaseController) MoveCoins(db vault.KVStore, src, dest vault.Address, amount int64) error {
	if amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if amount == 0 {
		return nil
	}

	have, err := c.Balance(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if have < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %d, need %d", src, have, amount)
	}
	if err := c.save(db, src, have-amount); err != nil {
		return err
	}
	return c.Issue(db, dest, amount)
}

func (c BaseController) Issue(db vault.KVStore, dest vault.Address, amount int64) error {
	if amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	have, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	if have > math.MaxInt64-amount {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", dest)
	}
	return c.save(db, dest, have+amount)
}

func (c BaseController) save(db vault.KVStore, addr vault.Address, amount int64) error {
	if _, err := c.bucket.Put(db, addr, &Balance{Amount: amount}); err != nil {
		return errors.Wrapf(err, "cannot save balance of %s", addr)
	}
	return nil
}

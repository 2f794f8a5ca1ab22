package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var cartKey = []byte("cart/open")

// Store persists the open cart so a register restart mid-order does not
// lose the cashier's work.
type Store struct {
	DB *badger.DB
}

func (s *Store) Save(c *Cart) error {
	b, err := json.Marshal(c.Lines())
	if err != nil {
		return err
	}
	err = s.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(cartKey, b)
	})
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Load restores persisted lines into the cart. A missing key is a fresh
// register, not an error.
func (s *Store) Load(c *Cart) error {
	err := s.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cartKey)
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			var lines []Line
			if err := json.Unmarshal(v, &lines); err != nil {
				return err
			}
			c.Restore(lines)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	return nil
}

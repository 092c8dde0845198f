// Package store contains the GORM-backed persistence layer. Each entity gets
// a small store type constructed over a shared *gorm.DB; business rules live
// in the service layer, not here.
package store

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

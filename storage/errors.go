package storage

import (
	"fmt"

	"github.com/etnz/passbook"
)

func notFound(destination string) error {
	return fmt.Errorf("%w: %q", passbook.ErrNotFound, destination)
}

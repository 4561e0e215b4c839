package repo

import (
	"errors"
	"time"
)

// queryTimeout bounds every single store call.
const queryTimeout = 3 * time.Second

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrVerificationNotFound  = errors.New("verification not found")
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
)

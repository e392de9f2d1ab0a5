package fs

import (
	"errors"
	"syscall"
)

// classifies filesystem errors into transient (worth retrying) and
// permanent.

func isTransient(err error) bool {
	if errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	return false
}

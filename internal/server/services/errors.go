package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autodealer/internal/common"
)

// wrapNotFound gives a not-found error a resource-specific message and passes
// anything else through.
func wrapNotFound(err error, msg string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
	}
	return err
}

package relworx

import (
	"errors"
	"fmt"
)

type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("relworx error: %s (status: %d)", e.Message, e.StatusCode)
}

func IsProviderError(err error) (*ProviderError, bool) {
	var provErr *ProviderError
	ok := errors.As(err, &provErr)
	return provErr, ok
}

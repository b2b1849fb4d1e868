package catalog

import (
	"errors"

	"github.com/admindesk/admindesk/internal/platform/httpx"
	"github.com/admindesk/admindesk/internal/shared"
)

func translateErr(err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return httpx.ErrNotFound
	case errors.Is(err, shared.ErrConflict):
		return httpx.ErrDuplicate
	default:
		return err
	}
}

package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 领域错误。调用方用 errors.Is 判断，API 层据此映射 HTTP 状态码。
var (
	ErrUnauthenticated        = errors.New("not authenticated")
	ErrNotFoundOrAccessDenied = errors.New("not found or access denied")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrConflict               = errors.New("conflict")
	ErrForbidden              = errors.New("forbidden")
	ErrUnsupported            = errors.New("unsupported")
)

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// translateRepoError maps repository errors onto the domain errors. Missing
// rows and rows owned by someone else look the same to the caller.
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFoundOrAccessDenied
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

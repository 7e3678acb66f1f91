package service

import (
	"errors"
	"fmt"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
)

// 协商错误类型，调用方使用 errors.Is 判断
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrValidation         = errors.New("validation failed")
	ErrAlreadyAccepted    = errors.New("another quotation for this inquiry has already been accepted")
	ErrExpired            = errors.New("quotation has expired")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var domainErrors = []error{
	ErrNotFound,
	ErrInvalidTransition,
	ErrValidation,
	ErrAlreadyAccepted,
	ErrExpired,
	ErrStorageUnavailable,
}

// IsDomainError 是否为已分类的协商错误
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func invalidTransition(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

// lookupError 将仓库层错误转换为协商错误
func lookupError(kind, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %s %w", kind, id, ErrNotFound)
	}
	return storageError("load "+kind, err)
}

// storageError 未分类的存储错误一律视为存储不可用，不做重试
func storageError(op string, err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

package domain

import (
	"errors"
	"fmt"
)

// 错误类别，传输层据此映射状态码
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// 具体业务错误
var (
	ErrMailboxNotFound = fmt.Errorf("mailbox %w", ErrNotFound)
	ErrMessageNotFound = fmt.Errorf("email %w", ErrNotFound)
	ErrMailboxRequired = fmt.Errorf("%w: mailbox not specified", ErrInvalidInput)
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email", ErrInvalidInput)
	ErrMoveToSent      = fmt.Errorf("%w: cannot move to the sent mailbox", ErrConflict)
	ErrDuplicateID     = errors.New("duplicate message id")
)

// IsInvalidInput 判断是否为输入错误
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound 判断是否为资源不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict 判断是否为冲突
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

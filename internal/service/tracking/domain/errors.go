// internal/service/tracking/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound 表示工单不存在，仅在员工侧暴露
	ErrJobNotFound = errors.New("job not found")
	// ErrCustomerNotFound 表示客户不存在，仅在员工侧暴露
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrVerificationFailed 是客户身份核验失败的统一错误
	// 客户不存在和尾号不匹配必须返回同一个错误，避免被用来探测客户是否存在
	ErrVerificationFailed = errors.New("verification failed")
	// ErrTooManyAttempts 表示核验尝试次数超限
	ErrTooManyAttempts = errors.New("too many verification attempts")
	// ErrUnknownStatus 表示请求的状态既不是规范值也不是已知别名
	ErrUnknownStatus = errors.New("unknown status")
	// ErrConcurrentModification 表示状态写入时发现与校验时观察到的不一致
	// 调用方应重新读取当前状态后重试，而不是覆盖写
	ErrConcurrentModification = errors.New("job was modified concurrently")
)

// TransitionError 表示请求的状态流转不被流转表允许
// 员工是可信用户，错误里明确带上当前状态和请求状态，便于排查
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition from %s to %s is not permitted", e.From, e.To)
}

// ErrTransitionNotPermitted 供 errors.Is 匹配所有流转拒绝错误
var ErrTransitionNotPermitted = errors.New("transition not permitted")

// Is 让 *TransitionError 能被 errors.Is(err, ErrTransitionNotPermitted) 命中
func (e *TransitionError) Is(target error) bool {
	return target == ErrTransitionNotPermitted
}

package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 广告展示链路上的错误不抛给调用方，只用于内部分流到对应的降级路径
//   - 提供错误代码（Code）与模块（Module），测试可以断言走了哪条降级路径
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "tracker", "ads"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	// ErrorCodeNotFound 引用的用户/商品/事件不存在
	ErrorCodeNotFound = "NOT_FOUND"
	// ErrorCodeUnavailable 底层存储不可达或写入被拒绝
	ErrorCodeUnavailable = "UNAVAILABLE"
	// ErrorCodeInvalidInput 入参无法解析，在边界处拦下
	ErrorCodeInvalidInput = "INVALID_INPUT"
)

// 模块名称常量
const (
	ModuleStore   = "store"
	ModuleTracker = "tracker"
	ModuleAds     = "ads"
	ModuleSignal  = "signal"
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE。
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// Store 通用错误（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreUnavailable 表示后端不可达
	ErrStoreUnavailable = NewDomainError(ModuleStore, ErrorCodeUnavailable, "store: backend unavailable")
)

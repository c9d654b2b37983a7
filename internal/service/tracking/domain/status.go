// internal/service/tracking/domain/status.go
package domain

// Status 定义了数据恢复工单的规范状态集
// 全系统只有这一套状态，所有展示和流转逻辑都以它为准
type Status string

const (
	StatusAwaitingDevice Status = "AWAITING_DEVICE"  // 等待客户送达设备
	StatusReceived       Status = "RECEIVED"         // 已签收设备
	StatusDiagnosing     Status = "DIAGNOSING"       // 检测分析中
	StatusQuoted         Status = "QUOTED"           // 已报价，等待客户确认
	StatusApproved       Status = "APPROVED"         // 客户已确认，准备施工
	StatusRecovering     Status = "RECOVERING"       // 数据恢复进行中
	StatusReadyForPickup Status = "READY_FOR_PICKUP" // 恢复完成，等待取件
	StatusCompleted      Status = "COMPLETED"        // 工单结束（终态）
	StatusCancelled      Status = "CANCELLED"        // 工单取消（终态，不在主进度线上）
)

// StatusOrder 是主进度线上的状态顺序，用于进度条渲染
// CANCELLED 是旁路终态，刻意不出现在这里
var StatusOrder = []Status{
	StatusAwaitingDevice,
	StatusReceived,
	StatusDiagnosing,
	StatusQuoted,
	StatusApproved,
	StatusRecovering,
	StatusReadyForPickup,
	StatusCompleted,
}

// statusLabels 是各状态对应的展示文案
var statusLabels = map[Status]string{
	StatusAwaitingDevice: "Awaiting device",
	StatusReceived:       "Device received",
	StatusDiagnosing:     "Diagnosing",
	StatusQuoted:         "Quote sent",
	StatusApproved:       "Quote approved",
	StatusRecovering:     "Recovery in progress",
	StatusReadyForPickup: "Ready for pickup",
	StatusCompleted:      "Completed",
	StatusCancelled:      "Cancelled",
}

// DefaultStatus 是无法识别的原始状态字符串的兜底值
// 宁可把进度显示得保守一点，也绝不能把未完成的工单显示成已完成
const DefaultStatus = StatusAwaitingDevice

// IsValid 判断 s 是否属于规范状态集
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// IsTerminal 判断 s 是否为终态（没有后继状态）
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Label 返回状态的展示文案，未知状态原样返回
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Status) String() string {
	return string(s)
}

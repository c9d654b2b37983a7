// internal/service/tracking/domain/alias.go
package domain

// AliasTable 把历史遗留的原始状态拼写映射到规范状态
// 建模为注入的不可变查找表而不是包级全局变量，方便测试替换
type AliasTable struct {
	entries map[string]Status
}

// NewAliasTable 从映射关系构造别名表，规范状态本身总是映射到自己
func NewAliasTable(entries map[string]Status) *AliasTable {
	merged := make(map[string]Status, len(entries)+len(statusLabels))
	for s := range statusLabels {
		merged[string(s)] = s
	}
	for raw, s := range entries {
		merged[raw] = s
	}
	return &AliasTable{entries: merged}
}

// DefaultAliasTable 返回内置别名表，收录了历次上游系统出现过的拼写
// 发现新拼写时在这里追加，删除需要评审
func DefaultAliasTable() *AliasTable {
	return NewAliasTable(map[string]Status{
		"WAITING_FOR_CUSTOMER_DEVICE": StatusAwaitingDevice,
		"WAITING_CUSTOMER_DEVICE":     StatusAwaitingDevice,
		"WAITING_FOR_CUSTOMER":        StatusAwaitingDevice,
		"WAITING_CUSTOMER":            StatusAwaitingDevice,
		"RECEIVED_DEVICE":             StatusReceived,
		"RECEIVE":                     StatusReceived,
		"UNDER_DIAGNOSIS":             StatusDiagnosing,
		"ANALYSIS_COMPLETE":           StatusDiagnosing,
		"IN_PROGRESS":                 StatusRecovering,
		"RECOVERY_IN_PROGRESS":        StatusRecovering,
		"DEVICE_RETURNED":             StatusCompleted,
		"RECOVERY_SUCCESSFUL":         StatusCompleted,
		"RECOVERY_FAILED":             StatusCancelled,
	})
}

// Lookup 折叠原始字符串后查表，返回命中的规范状态
// 未命中时返回 ok=false，由调用方决定是否记录兜底指标
func (t *AliasTable) Lookup(raw string) (Status, bool) {
	s, ok := t.entries[foldRaw(raw)]
	return s, ok
}

// Normalize 把任意原始状态字符串归一到规范状态
// 对任何输入都不会失败：未识别的拼写一律落到 DefaultStatus
func (t *AliasTable) Normalize(raw string) Status {
	if s, ok := t.Lookup(raw); ok {
		return s
	}
	return DefaultStatus
}

// Spellings 返回所有会归一到 s 的原始拼写（含 s 自己的规范名）
// 仓储层的 CAS 写入用它做前提条件，历史遗留行存的可能是别名而不是规范名
func (t *AliasTable) Spellings(s Status) []string {
	var out []string
	for raw, mapped := range t.entries {
		if mapped == s {
			out = append(out, raw)
		}
	}
	return out
}

// OnlyDigits 去掉字符串里的所有非数字字符
// 电话号码的存储格式不统一，比较和脱敏前都先过这里
func OnlyDigits(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b = append(b, s[i])
		}
	}
	return string(b)
}

// foldRaw 统一大小写并把所有非 A-Z 字符替换为下划线
// 这样 "recovery successful" 和 "RECOVERY_SUCCESSFUL" 会折叠成同一个键
func foldRaw(raw string) string {
	b := make([]byte, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b[i] = c
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		default:
			b[i] = '_'
		}
	}
	return string(b)
}

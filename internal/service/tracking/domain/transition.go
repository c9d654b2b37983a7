// internal/service/tracking/domain/transition.go
package domain

// transitionMap 定义了每个状态一步可达的后继状态
// 取消从任何非终态都允许；COMPLETED 只能从恢复中或待取件到达
// 两个终态没有任何出边
var transitionMap = map[Status][]Status{
	StatusAwaitingDevice: {StatusReceived, StatusCancelled},
	StatusReceived:       {StatusDiagnosing, StatusCancelled},
	StatusDiagnosing:     {StatusQuoted, StatusCancelled},
	StatusQuoted:         {StatusApproved, StatusCancelled},
	StatusApproved:       {StatusRecovering, StatusCancelled},
	StatusRecovering:     {StatusReadyForPickup, StatusCompleted, StatusCancelled},
	StatusReadyForPickup: {StatusCompleted, StatusCancelled},
	StatusCompleted:      {},
	StatusCancelled:      {},
}

// AllowedNext 返回 current 一步可以流转到的状态集合
// 返回的是副本，调用方可以随意修改
func AllowedNext(current Status) []Status {
	next := transitionMap[current]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition 判断 current → requested 是否是合法流转
func CanTransition(current, requested Status) bool {
	for _, s := range transitionMap[current] {
		if s == requested {
			return true
		}
	}
	return false
}

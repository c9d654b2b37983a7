// internal/service/tracking/domain/progress.go
package domain

// Step 是状态在线性进度条上的投影
// Cancelled 为 true 时 Index 无意义（-1），前端必须渲染为独立的终止态，
// 既不能显示成 100% 完成，也不能直接隐藏
type Step struct {
	Index     int
	Fraction  float64
	Cancelled bool
}

// Project 把规范状态投影为进度条位置
// 非法输入（未归一的状态）按 DefaultStatus 处理，保持与 Normalize 一致的保守语义
func Project(s Status) Step {
	if s == StatusCancelled {
		return Step{Index: -1, Cancelled: true}
	}
	for i, o := range StatusOrder {
		if o == s {
			return Step{Index: i, Fraction: float64(i) / float64(len(StatusOrder)-1)}
		}
	}
	return Project(DefaultStatus)
}

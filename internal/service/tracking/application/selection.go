// internal/service/tracking/application/selection.go
package application

// JobSelection 管理核验通过后同一客户名下多张工单的浏览选择
// 只有一张工单时选择是隐式的（下标 0）
type JobSelection struct {
	jobs     []JobDTO
	selected int
}

// NewJobSelection 基于工单列表构造选择器
func NewJobSelection(jobs []JobDTO) *JobSelection {
	return &JobSelection{jobs: jobs}
}

// Len 返回工单数量
func (s *JobSelection) Len() int {
	return len(s.jobs)
}

// Jobs 返回全部工单
func (s *JobSelection) Jobs() []JobDTO {
	return s.jobs
}

// Select 选中下标 i 的工单
// 越界时夹取到合法范围而不是报错，前端传来什么都不会崩
func (s *JobSelection) Select(i int) int {
	if len(s.jobs) == 0 {
		s.selected = 0
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i > len(s.jobs)-1 {
		i = len(s.jobs) - 1
	}
	s.selected = i
	return i
}

// SelectedIndex 返回当前选中的下标
func (s *JobSelection) SelectedIndex() int {
	return s.selected
}

// Current 返回当前选中的工单，列表为空时返回 nil
func (s *JobSelection) Current() *JobDTO {
	if len(s.jobs) == 0 {
		return nil
	}
	return &s.jobs[s.selected]
}

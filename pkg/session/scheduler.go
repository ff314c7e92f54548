package session

import "sort"

// TaskID 定时任务标识
type TaskID int

type task struct {
	id  TaskID
	due float64
	fn  func()
}

// Scheduler 协作式定时回调
//
// 替代"等待 N 秒"的协程：After 登记回调，Update 推进时间并在到期时执行。
// 回调在 Update 调用方的线程内执行，不会阻塞其他逻辑。
type Scheduler struct {
	now    float64
	tasks  []task
	nextID TaskID
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After 在 seconds 秒后执行 fn
// seconds <= 0 时在下一次 Update 中执行
func (s *Scheduler) After(seconds float64, fn func()) TaskID {
	if seconds < 0 {
		seconds = 0
	}
	s.nextID++
	s.tasks = append(s.tasks, task{id: s.nextID, due: s.now + seconds, fn: fn})
	return s.nextID
}

// Cancel 取消任务，任务不存在时忽略
func (s *Scheduler) Cancel(id TaskID) {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// CancelAll 取消所有任务
func (s *Scheduler) CancelAll() {
	s.tasks = nil
}

// Pending 待执行的任务数
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Now 调度器时钟（秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// Update 推进 dt 秒并按到期时间顺序执行到期任务
// 回调中登记的新任务如果已到期，也在本次 Update 中执行
func (s *Scheduler) Update(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	for {
		idx := s.nextDue()
		if idx < 0 {
			return
		}
		t := s.tasks[idx]
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		t.fn()
	}
}

// nextDue 返回最早到期任务的下标，没有到期任务时返回 -1
func (s *Scheduler) nextDue() int {
	due := make([]int, 0, len(s.tasks))
	for i, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, i)
		}
	}
	if len(due) == 0 {
		return -1
	}
	sort.Slice(due, func(a, b int) bool {
		ta, tb := s.tasks[due[a]], s.tasks[due[b]]
		if ta.due != tb.due {
			return ta.due < tb.due
		}
		return ta.id < tb.id
	})
	return due[0]
}

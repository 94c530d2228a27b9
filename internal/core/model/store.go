package model

import "sort"

// IntervalStore maps event types to tasks to their ordered intervals.
type IntervalStore struct {
	Types []EventType                         `json:"types" msgpack:"types"`
	Tasks []TaskID                            `json:"tasks" msgpack:"tasks"`
	Data  map[EventType]map[TaskID][]Interval `json:"data" msgpack:"data"`
}

// NewIntervalStore creates a store pre-sized to every type x task pair.
func NewIntervalStore(types []EventType, tasks []TaskID) *IntervalStore {
	s := &IntervalStore{
		Types: append([]EventType(nil), types...),
		Tasks: append([]TaskID(nil), tasks...),
		Data:  make(map[EventType]map[TaskID][]Interval, len(types)),
	}
	for _, t := range types {
		perTask := make(map[TaskID][]Interval, len(tasks))
		for _, task := range tasks {
			perTask[task] = []Interval{}
		}
		s.Data[t] = perTask
	}
	return s
}

// TaskRange returns the task ids 0..n-1.
func TaskRange(n int) []TaskID {
	tasks := make([]TaskID, n)
	for i := range tasks {
		tasks[i] = TaskID(i)
	}
	return tasks
}

// Has reports whether the store tracks the given pair.
func (s *IntervalStore) Has(t EventType, task TaskID) bool {
	perTask, ok := s.Data[t]
	if !ok {
		return false
	}
	_, ok = perTask[task]
	return ok
}

// Intervals returns the intervals recorded for a pair. The slice must not be modified.
func (s *IntervalStore) Intervals(t EventType, task TaskID) []Interval {
	return s.Data[t][task]
}

// Append adds an interval to a tracked pair.
func (s *IntervalStore) Append(t EventType, task TaskID, iv Interval) {
	s.Data[t][task] = append(s.Data[t][task], iv)
}

// Last returns a pointer to the most recently appended interval of a pair, or nil.
func (s *IntervalStore) Last(t EventType, task TaskID) *Interval {
	ivs := s.Data[t][task]
	if len(ivs) == 0 {
		return nil
	}
	return &ivs[len(ivs)-1]
}

// Count returns the total number of intervals in the store.
func (s *IntervalStore) Count() int {
	n := 0
	for _, perTask := range s.Data {
		for _, ivs := range perTask {
			n += len(ivs)
		}
	}
	return n
}

// OpenCount returns the number of intervals that never saw an end line.
func (s *IntervalStore) OpenCount() int {
	n := 0
	for _, perTask := range s.Data {
		for _, ivs := range perTask {
			for _, iv := range ivs {
				if iv.Open {
					n++
				}
			}
		}
	}
	return n
}

// SortedTasks returns the task ids in ascending order.
func (s *IntervalStore) SortedTasks() []TaskID {
	tasks := append([]TaskID(nil), s.Tasks...)
	sort.Slice(tasks, func(i, j int) bool { return tasks[i] < tasks[j] })
	return tasks
}

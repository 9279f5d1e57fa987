package services

import "sync"

// lessonLocks serializes work per lesson ID. Entries are dropped when unused.
type lessonLocks struct {
	mu    sync.Mutex
	locks map[int]*lessonLock
}

type lessonLock struct {
	mu   sync.Mutex
	refs int
}

func newLessonLocks() *lessonLocks {
	return &lessonLocks{locks: make(map[int]*lessonLock)}
}

// Lock blocks until id is free and returns the matching unlock function
func (l *lessonLocks) Lock(id int) func() {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &lessonLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()

		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *lessonLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

package vfs

import "sync"

// Ledger counts loaded buffers that have not been freed yet. Both FS
// implementations embed one so tests can assert that every buffer has
// exactly one release point.
type Ledger struct {
	mu          sync.Mutex
	live        map[*byte]string
	loads       int
	doubleFrees int
}

func (l *Ledger) track(name string, data []byte) []byte {
	// zero-length files still need an identity
	if cap(data) == 0 {
		data = make([]byte, 0, 1)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.live == nil {
		l.live = make(map[*byte]string)
	}
	l.live[&data[:1][0]] = name
	l.loads++
	return data
}

func (l *Ledger) release(data []byte) {
	if cap(data) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	k := &data[:1][0]
	if _, ok := l.live[k]; !ok {
		l.doubleFrees++
		return
	}
	delete(l.live, k)
}

// Outstanding returns the names of loaded buffers not yet freed.
func (l *Ledger) Outstanding() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.live))
	for _, n := range l.live {
		names = append(names, n)
	}
	return names
}

// Loads returns the number of successful LoadFile calls.
func (l *Ledger) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// DoubleFrees returns how many FreeFile calls named an unknown buffer.
func (l *Ledger) DoubleFrees() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doubleFrees
}

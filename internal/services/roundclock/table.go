package roundclock

// Table holds at most one live clock per room id. It is not safe for
// concurrent use; the owner serializes access.
type Table struct {
	clocks map[string]*RoundClock
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{clocks: make(map[string]*RoundClock)}
}

// Install stops the clock currently held for roomID, stores rc and starts it
func (t *Table) Install(roomID string, rc *RoundClock) {
	if previous, ok := t.clocks[roomID]; ok {
		previous.Stop()
	}
	t.clocks[roomID] = rc
	rc.Start()
}

// InstallResumed is Install for a round that was running before a restart
func (t *Table) InstallResumed(roomID string, rc *RoundClock) {
	if previous, ok := t.clocks[roomID]; ok {
		previous.Stop()
	}
	t.clocks[roomID] = rc
	rc.Resume()
}

// Get returns the clock installed for roomID
func (t *Table) Get(roomID string) (*RoundClock, bool) {
	rc, ok := t.clocks[roomID]
	return rc, ok
}

// IsCurrent reports whether rc is the clock installed for roomID
func (t *Table) IsCurrent(roomID string, rc *RoundClock) bool {
	installed, ok := t.Get(roomID)
	return ok && installed == rc
}

// Stop cancels and forgets the clock for roomID
func (t *Table) Stop(roomID string) {
	if rc, ok := t.clocks[roomID]; ok {
		rc.Stop()
		delete(t.clocks, roomID)
	}
}

// StopAll cancels and forgets every clock
func (t *Table) StopAll() {
	for roomID, rc := range t.clocks {
		rc.Stop()
		delete(t.clocks, roomID)
	}
}

// Len returns the number of installed clocks
func (t *Table) Len() int {
	return len(t.clocks)
}

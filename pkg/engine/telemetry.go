package engine

// subscriberBuffer is the per-subscriber channel depth; slow consumers
// drop records rather than stall the decision path.
const subscriberBuffer = 64

// Subscribe registers a telemetry listener for a session's decisions.
// The returned cancel function must be called to release the channel.
func (e *Engine) Subscribe(sessionID string) (<-chan DecisionRecord, func()) {
	s := e.Session(sessionID)
	ch := make(chan DecisionRecord, subscriberBuffer)

	e.mu.Lock()
	e.subs[s.ID] = append(e.subs[s.ID], ch)
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		subs := e.subs[s.ID]
		for i, c := range subs {
			if c == ch {
				e.subs[s.ID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		close(ch)
	}
	return ch, cancel
}

// publish fans a record out to the session's subscribers without ever
// blocking the decision path.
func (e *Engine) publish(rec DecisionRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subs[rec.Session] {
		select {
		case ch <- rec:
		default:
		}
	}
}

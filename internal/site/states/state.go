// Package states switches between the rooms of the site.
package states

// State is one screen of the application, such as a page session.
type State interface {
	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state. It must be safe to call twice.
	Exit() error

	// Update is called every frame.
	Update(dt float64) error

	// Render is called every frame to draw the state.
	Render() error
}

// Manager manages state transitions. Changes are deferred to the next
// Update so a state can request a change from its own event handlers.
type Manager struct {
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Pending returns the state scheduled by Change, if any.
func (m *Manager) Pending() State {
	return m.next
}

// Change schedules a state change. A later Change before the next Update
// replaces the earlier one.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update processes state changes and updates current state.
func (m *Manager) Update(dt float64) error {
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return err
		}
	}

	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// Render renders the current state.
func (m *Manager) Render() error {
	if m.current != nil {
		return m.current.Render()
	}
	return nil
}

// Close exits the current state and drops any pending change.
func (m *Manager) Close() error {
	m.next = nil
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}

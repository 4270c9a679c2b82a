package states

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeState struct {
	name     string
	log      *[]string
	enterErr error
}

func (s *fakeState) Enter() error {
	*s.log = append(*s.log, "enter "+s.name)
	return s.enterErr
}

func (s *fakeState) Exit() error {
	*s.log = append(*s.log, "exit "+s.name)
	return nil
}

func (s *fakeState) Update(float64) error {
	*s.log = append(*s.log, "update "+s.name)
	return nil
}

func (s *fakeState) Render() error {
	*s.log = append(*s.log, "render "+s.name)
	return nil
}

func TestManagerDeferredChange(t *testing.T) {
	var log []string
	home := &fakeState{name: "home", log: &log}
	art := &fakeState{name: "art", log: &log}

	m := NewManager()
	m.Change(home)
	assert.Nil(t, m.Current(), "change waits for Update")
	assert.Equal(t, home, m.Pending())

	require.NoError(t, m.Update(0.016))
	assert.Equal(t, home, m.Current())
	require.NoError(t, m.Render())

	m.Change(art)
	require.NoError(t, m.Update(0.016))
	assert.Equal(t, art, m.Current())
	assert.Nil(t, m.Pending())

	assert.Equal(t, []string{
		"enter home", "update home", "render home",
		"exit home", "enter art", "update art",
	}, log)
}

func TestManagerLastChangeWins(t *testing.T) {
	var log []string
	m := NewManager()
	m.Change(&fakeState{name: "a", log: &log})
	m.Change(&fakeState{name: "b", log: &log})
	require.NoError(t, m.Update(0))
	assert.Equal(t, []string{"enter b", "update b"}, log)
}

func TestManagerEnterError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	m := NewManager()
	m.Change(&fakeState{name: "bad", log: &log, enterErr: boom})
	assert.ErrorIs(t, m.Update(0), boom)
}

func TestManagerClose(t *testing.T) {
	var log []string
	m := NewManager()
	require.NoError(t, m.Close())

	m.Change(&fakeState{name: "home", log: &log})
	require.NoError(t, m.Update(0))
	m.Change(&fakeState{name: "never", log: &log})
	require.NoError(t, m.Close())

	assert.Nil(t, m.Current())
	assert.Nil(t, m.Pending())
	assert.Equal(t, []string{"enter home", "update home", "exit home"}, log)
	require.NoError(t, m.Render())
}

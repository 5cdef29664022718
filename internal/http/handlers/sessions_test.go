package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerCreateAndGet(t *testing.T) {
	m := NewSessionManager(testFactory(), time.Hour)

	ms := m.Create()
	require.NotEmpty(t, ms.id)

	got, ok := m.Get(ms.id)
	assert.True(t, ok)
	assert.Same(t, ms, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestSessionManagerEvictIdle(t *testing.T) {
	m := NewSessionManager(testFactory(), 10*time.Minute)
	current := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	stale := m.Create()
	current = current.Add(30 * time.Minute)
	fresh := m.Create()

	assert.Equal(t, 1, m.EvictIdle())
	_, ok := m.Get(stale.id)
	assert.False(t, ok)
	_, ok = m.Get(fresh.id)
	assert.True(t, ok)
}

func TestSessionStepUpdatesActivity(t *testing.T) {
	m := NewSessionManager(testFactory(), 10*time.Minute)
	current := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	ms := m.Create()
	current = current.Add(9 * time.Minute)
	ms.step(context.Background(), "", m.now())

	current = current.Add(9 * time.Minute)
	assert.Equal(t, 0, m.EvictIdle(), "activity reset the idle clock")
	assert.Equal(t, 1, m.Len())
}

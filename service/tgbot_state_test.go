package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBotStateLifecycle(t *testing.T) {
	s := NewBotState()

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Set(1, StateMergeCount)
	state, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, StateMergeCount, state)

	s.MergeForm(1).Count = 3
	assert.Equal(t, 3, s.MergeForm(1).Count)

	s.Clear(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
	assert.Zero(t, s.MergeForm(1).Count, "clear drops accumulated forms")
}

func TestBotStateIsolatesChats(t *testing.T) {
	s := NewBotState()

	s.Set(1, StateMergeCount)
	s.Set(2, StateEditServer)
	s.MergeForm(1).TargetPort = 443
	s.SetEditTarget(2, "srv-a")

	state, _ := s.Get(1)
	assert.Equal(t, StateMergeCount, state)
	state, _ = s.Get(2)
	assert.Equal(t, StateEditServer, state)

	assert.Zero(t, s.MergeForm(2).TargetPort)
	_, ok := s.EditTarget(1)
	assert.False(t, ok)

	s.Clear(1)
	target, ok := s.EditTarget(2)
	assert.True(t, ok)
	assert.Equal(t, "srv-a", target)
}

func TestSkipDetection(t *testing.T) {
	assert.True(t, isSkip("/skip"))
	assert.True(t, isSkip("  /SKIP "))
	assert.False(t, isSkip("/start"))
	assert.False(t, isSkip("skip"))

	assert.True(t, isRealCommand("/start"))
	assert.False(t, isRealCommand("/skip"))
	assert.False(t, isRealCommand("hello"))
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonTerminalStatusesHaveSuccessors(t *testing.T) {
	for s := range statusLabels {
		next := AllowedNext(s)
		if s.IsTerminal() {
			assert.Empty(t, next, "terminal %s must have no successors", s)
		} else {
			assert.NotEmpty(t, next, "non-terminal %s must have successors", s)
		}
	}
}

// 取消从任何非终态都必须可达
func TestCancellationAlwaysPermitted(t *testing.T) {
	for s := range statusLabels {
		if s.IsTerminal() {
			continue
		}
		assert.True(t, CanTransition(s, StatusCancelled), "from %s", s)
	}
}

func TestCompletedReachableOnlyFromTwoPaths(t *testing.T) {
	for s := range statusLabels {
		can := CanTransition(s, StatusCompleted)
		if s == StatusRecovering || s == StatusReadyForPickup {
			assert.True(t, can, "from %s", s)
		} else {
			assert.False(t, can, "from %s", s)
		}
	}
}

func TestTransitionScenarios(t *testing.T) {
	assert.False(t, CanTransition(StatusDiagnosing, StatusCompleted))
	assert.True(t, CanTransition(StatusDiagnosing, StatusQuoted))
	assert.False(t, CanTransition(StatusCancelled, StatusReceived))
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
}

func TestAllowedNextReturnsCopy(t *testing.T) {
	next := AllowedNext(StatusRecovering)
	next[0] = StatusAwaitingDevice
	assert.Equal(t, StatusReadyForPickup, AllowedNext(StatusRecovering)[0])
}

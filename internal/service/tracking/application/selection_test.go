package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionClampsOutOfRange(t *testing.T) {
	sel := NewJobSelection([]JobDTO{{ID: 1}, {ID: 2}})

	// 越界选择夹取到最后一个合法下标
	assert.Equal(t, 1, sel.Select(5))
	require.NotNil(t, sel.Current())
	assert.Equal(t, int64(2), sel.Current().ID)

	assert.Equal(t, 0, sel.Select(-3))
	assert.Equal(t, int64(1), sel.Current().ID)
}

func TestSelectionSingleJobIsImplicit(t *testing.T) {
	sel := NewJobSelection([]JobDTO{{ID: 9}})

	require.NotNil(t, sel.Current())
	assert.Equal(t, int64(9), sel.Current().ID)
	assert.Equal(t, 0, sel.SelectedIndex())
}

func TestSelectionEmpty(t *testing.T) {
	sel := NewJobSelection(nil)

	assert.Nil(t, sel.Current())
	assert.Equal(t, 0, sel.Select(3))
	assert.Equal(t, 0, sel.Len())
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "XXX-XXX-5678", MaskPhone("081-234-5678"))
	assert.Equal(t, "XXX-XXX-5678", MaskPhone("+66 81 234 5678"))
	assert.Equal(t, "unavailable", MaskPhone("12"))
	assert.Equal(t, "unavailable", MaskPhone(""))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "s***i@example.com", MaskEmail("somchai@example.com"))
	assert.Equal(t, "a***@x.com", MaskEmail("ab@x.com"))
	assert.Equal(t, "", MaskEmail("not-an-email"))
	assert.Equal(t, "", MaskEmail(""))
	assert.Equal(t, "", MaskEmail("@example.com"))
}

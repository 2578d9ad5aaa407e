package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableRegisterAndLookup(t *testing.T) {
	s := NewSymbolTable()
	id, err := s.Register("Foo", GlobalID(7))
	require.NoError(t, err)
	assert.Equal(t, GlobalID(7), id)

	got, ok := s.Lookup("foo")
	assert.True(t, ok, "lookup should casefold")
	assert.Equal(t, GlobalID(7), got)
}

func TestSymbolTableRegisterConflictReturnsExisting(t *testing.T) {
	s := NewSymbolTable()
	_, err := s.Register("bar", GlobalID(1))
	require.NoError(t, err)

	existing, err := s.Register("BAR", GlobalID(2))
	assert.Error(t, err)
	assert.Equal(t, GlobalID(1), existing)
}

func TestSymbolTableIterPinnedBorrowsTable(t *testing.T) {
	s := NewSymbolTable()
	_, _ = s.Register("a", GlobalID(1))
	_, _ = s.Register("b", GlobalID(2))

	var seenDuringIter error
	s.IterPinned(func(name string, id GlobalID) {
		_, seenDuringIter = s.Register("c", GlobalID(3))
	})
	assert.ErrorIs(t, seenDuringIter, ErrSymtabBorrowed)

	// after IterPinned returns, the table is usable again
	_, err := s.Register("c", GlobalID(3))
	assert.NoError(t, err)
}

func TestUnregisterGlobalDisposeRemovesAllNames(t *testing.T) {
	s := NewSymbolTable()
	_, _ = s.Register("alias1", GlobalID(9))
	_, _ = s.Register("alias2", GlobalID(9))
	_, _ = s.Register("other", GlobalID(10))

	require.NoError(t, s.UnregisterGlobalDispose(GlobalID(9)))

	_, ok1 := s.Lookup("alias1")
	_, ok2 := s.Lookup("alias2")
	_, ok3 := s.Lookup("other")
	assert.False(t, ok1)
	assert.False(t, ok2)
	assert.True(t, ok3)
}

package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "OpStarted", typ: OpStarted},
		{want: "OpCompleted", typ: OpCompleted},
		{want: "EntryPacked", typ: EntryPacked},
		{want: "EntryUnpacked", typ: EntryUnpacked},
		{want: "EntryMoved", typ: EntryMoved},
		{want: "EntrySkipped", typ: EntrySkipped},
		{want: "EntryFailed", typ: EntryFailed},
		{want: "DirCreated", typ: DirCreated},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(999).String())
	assert.Equal(t, "Unknown", Type(0).String())
	assert.Equal(t, "Unknown", Type(-1).String())
}

func TestEmitStampsTimestamp(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: EntryPacked, Op: "pack", Path: "a.txt", Size: 3})

	got := <-ch
	assert.Equal(t, EntryPacked, got.Type)
	assert.Equal(t, "a.txt", got.Path)
	assert.False(t, got.Timestamp.IsZero())
}

func TestEmitKeepsTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: EntryMoved, Timestamp: ts})

	assert.Equal(t, ts, (<-ch).Timestamp)
}

func TestEmitNilChannel(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(nil, Event{Type: EntryFailed, Error: errors.New("boom")})
	})
}

func TestEmitFullChannelDoesNotBlock(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: EntryPacked, Path: "first"})
	Emit(ch, Event{Type: EntryPacked, Path: "second"})

	require.Len(t, ch, 1)
	assert.Equal(t, "first", (<-ch).Path)
}

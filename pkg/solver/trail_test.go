package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrailSaveRestoreRoundTrip(t *testing.T) {
	s := New(Parameters{})
	v, err := s.Add(NewRangeDomain(0, 9), "v")
	require.NoError(t, err)

	require.Equal(t, 0, s.trail.Level())
	s.trail.Save()
	require.Equal(t, 1, s.trail.Level())

	before := v.Domain().String()
	_, err = s.SetMin(v, 5, nil)
	require.NoError(t, err)
	require.NotEqual(t, before, v.Domain().String())

	s.trail.Restore()
	require.Equal(t, 0, s.trail.Level())
	require.Equal(t, before, v.Domain().String())
}

func TestTrailRestoreToSkipsMultipleLevels(t *testing.T) {
	s := New(Parameters{})
	v, err := s.Add(NewRangeDomain(0, 9), "v")
	require.NoError(t, err)

	s.trail.Save() // level 1
	_, err = s.SetMin(v, 1, nil)
	require.NoError(t, err)
	s.trail.Save() // level 2
	_, err = s.SetMin(v, 2, nil)
	require.NoError(t, err)
	s.trail.Save() // level 3
	_, err = s.SetMin(v, 3, nil)
	require.NoError(t, err)

	require.Equal(t, 3, s.trail.Level())
	s.trail.RestoreTo(1)
	require.Equal(t, 1, s.trail.Level())
	require.Equal(t, 1, v.Min())
}

func TestTrailHeaderSizeEqualsLevel(t *testing.T) {
	s := New(Parameters{})
	for i := 0; i < 5; i++ {
		s.trail.Save()
		require.Equal(t, i+1, s.trail.Level())
	}
	for i := 4; i >= 0; i-- {
		s.trail.Restore()
		require.Equal(t, i, s.trail.Level())
	}
}

func TestRepeatedSetMinIsIdempotentSecondCallNoEvent(t *testing.T) {
	s := New(Parameters{})
	v, err := s.Add(NewRangeDomain(0, 9), "v")
	require.NoError(t, err)

	ev, err := s.SetMin(v, 3, nil)
	require.NoError(t, err)
	require.NotEqual(t, NoEvent, ev.Kind)

	ev, err = s.SetMin(v, 3, nil)
	require.NoError(t, err)
	require.Equal(t, NoEvent, ev.Kind)
}

func TestRevIntMandatoryTrailing(t *testing.T) {
	trail := NewTrail()
	r := NewRevInt(5)
	trail.Save()
	trail.SetInt(r, 3) // monotonic shrink, still trailed
	require.Equal(t, 3, r.Get())
	trail.Restore()
	require.Equal(t, 5, r.Get())
}

func TestRevBoolAssignRejectsContradiction(t *testing.T) {
	trail := NewTrail()
	b := NewRevBool()
	require.True(t, trail.AssignBool(b, true))
	require.False(t, trail.AssignBool(b, false))
}

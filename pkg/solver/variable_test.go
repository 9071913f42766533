package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViewReadsThroughPositiveAffineTransform(t *testing.T) {
	s := New(Parameters{})
	target, err := s.Add(NewRangeDomain(0, 9), "t")
	require.NoError(t, err)
	view, err := s.AddView(target, 1, 3, "t+3") // view = target + 3
	require.NoError(t, err)

	require.Equal(t, 3, view.Min())
	require.Equal(t, 12, view.Max())
	require.True(t, view.Contains(5))
	require.False(t, view.Contains(2))
}

func TestViewSetMinNarrowsTargetUnderPositiveScale(t *testing.T) {
	s := New(Parameters{})
	target, err := s.Add(NewRangeDomain(0, 9), "t")
	require.NoError(t, err)
	view, err := s.AddView(target, 1, 3, "t+3")
	require.NoError(t, err)

	_, err = s.SetMin(view, 5, nil) // view >= 5  =>  target >= 2
	require.NoError(t, err)
	require.Equal(t, 2, target.Min())
	require.Equal(t, 5, view.Min())
}

func TestViewSetMinNarrowsTargetUnderNegativeScale(t *testing.T) {
	s := New(Parameters{})
	target, err := s.Add(NewRangeDomain(0, 9), "t")
	require.NoError(t, err)
	view, err := s.AddView(target, -1, 9, "9-t") // view = 9 - target
	require.NoError(t, err)

	require.Equal(t, 0, view.Min())
	require.Equal(t, 9, view.Max())

	_, err = s.SetMin(view, 4, nil) // view >= 4  =>  9-target >= 4  =>  target <= 5
	require.NoError(t, err)
	require.Equal(t, 5, target.Max())
}

func TestViewRemoveTranslatesToTarget(t *testing.T) {
	s := New(Parameters{})
	target, err := s.Add(NewRangeDomain(0, 4), "t")
	require.NoError(t, err)
	view, err := s.AddView(target, 1, 10, "t+10")
	require.NoError(t, err)

	_, err = s.Remove(view, 12, nil) // view==12  =>  target==2
	require.NoError(t, err)
	require.False(t, target.Contains(2))
	require.False(t, view.Contains(12))
}

func TestViewSetValuePropagatesToTarget(t *testing.T) {
	s := New(Parameters{})
	target, err := s.Add(NewRangeDomain(0, 9), "t")
	require.NoError(t, err)
	view, err := s.AddView(target, 1, 3, "t+3")
	require.NoError(t, err)

	_, err = s.SetValue(view, 7, nil)
	require.NoError(t, err)
	require.True(t, target.IsGround())
	val, _ := target.Value()
	require.Equal(t, 4, val)
}

func TestViewNotAddedToSearchSequence(t *testing.T) {
	s := New(Parameters{})
	target, err := s.Add(NewRangeDomain(0, 9), "t")
	require.NoError(t, err)
	_, err = s.AddView(target, 1, 3, "t+3")
	require.NoError(t, err)

	for _, v := range s.liveSequence() {
		require.NotEqual(t, "t+3", v.Name())
	}
}

package solver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRangeDomainBasics(t *testing.T) {
	d := NewRangeDomain(2, 7)
	require.Equal(t, 6, d.Size())
	require.Equal(t, 2, d.Min())
	require.Equal(t, 7, d.Max())
	require.False(t, d.IsGround())
	require.True(t, d.Contains(5))
	require.False(t, d.Contains(9))
}

func TestRangeDomainSetMinSetMax(t *testing.T) {
	d := NewRangeDomain(0, 9)
	nd, ok := d.setMin(3)
	require.True(t, ok)
	require.Equal(t, 3, nd.Min())

	nd, ok = nd.setMax(3)
	require.True(t, ok)
	require.True(t, nd.IsGround())
}

func TestRangeDomainSetMinBeyondMaxFails(t *testing.T) {
	d := NewRangeDomain(0, 5)
	_, ok := d.setMin(10)
	require.False(t, ok)
}

func TestBitsetDomainRemoveAndToSlice(t *testing.T) {
	d := NewBitsetDomainFromValues(0, 4, func(v int) bool { return true })
	nd, ok := d.remove(2)
	require.True(t, ok)
	bs := nd.(*BitsetDomain)
	want := []int{0, 1, 3, 4}
	if diff := cmp.Diff(want, bs.ToSlice()); diff != "" {
		t.Fatalf("ToSlice mismatch (-want +got):\n%s", diff)
	}
}

func TestBitsetDomainEmptyOnLastRemoval(t *testing.T) {
	d := NewBitsetDomainFromValues(0, 0, func(v int) bool { return true })
	_, ok := d.remove(0)
	require.False(t, ok)
}

func TestBooleanDomainGroundAfterRemoval(t *testing.T) {
	d := NewBooleanDomain()
	nd, ok := d.remove(0)
	require.True(t, ok)
	bd := nd.(*BooleanDomain)
	require.True(t, bd.IsGround())
	require.True(t, bd.IsTrue())
}

func TestConstantDomainNeverMutatesInPlace(t *testing.T) {
	d := NewConstantDomain(4)
	require.True(t, d.IsGround())
	_, ok := d.remove(4)
	require.False(t, ok)
	// original constant is untouched -- a fresh wipe-out value was returned.
	require.Equal(t, 4, d.Min())
}

func TestIntersectDomains(t *testing.T) {
	a := NewRangeDomain(0, 5)
	b := NewRangeDomain(3, 8)
	nd, ok := intersectDomains(a, b)
	require.True(t, ok)
	require.Equal(t, 3, nd.Min())
	require.Equal(t, 5, nd.Max())
}

func TestIntersectDomainsEmptyWhenDisjoint(t *testing.T) {
	a := NewRangeDomain(0, 2)
	b := NewRangeDomain(5, 8)
	_, ok := intersectDomains(a, b)
	require.False(t, ok)
}

func TestRangeDomainNonConvexRemovalDetection(t *testing.T) {
	d := NewRangeDomain(0, 5)
	require.True(t, d.nonConvexRemoval(3))
	require.False(t, d.nonConvexRemoval(0))
	require.False(t, d.nonConvexRemoval(5))
}

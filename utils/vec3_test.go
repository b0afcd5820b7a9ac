package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3(t *testing.T) {
	// Basic algebra
	{
		v := Vec3{1, 2, 3}
		w := Vec3{-1, 0, 1}
		assert.Equal(t, Vec3{0, 2, 4}, v.Add(w))
		assert.Equal(t, Vec3{2, 2, 2}, v.Sub(w))
		assert.InDelta(t, 2., v.Dot(w), 1.e-14)
		assert.Equal(t, Vec3{2, -4, 2}, v.Cross(w))
		assert.InDelta(t, math.Sqrt(14), v.Norm(), 1.e-14)
	}
	// Normalization
	{
		u, ok := (Vec3{3, 0, 4}).Normalized()
		assert.True(t, ok)
		assert.InDelta(t, 1, u.Norm(), 1.e-14)
		assert.InDelta(t, 0.6, u[0], 1.e-14)

		_, ok = (Vec3{}).Normalized()
		assert.False(t, ok)
	}
}

func TestRotationMatrix(t *testing.T) {
	// Rotation preserves norms and pairwise angles
	{
		R := RotationMatrix(Vec3{1, 2, -1}, 0.7)
		v := Vec3{0.3, -0.2, 0.9}
		w := Vec3{-1, 0.5, 0.1}
		vR, wR := v.Apply(R), w.Apply(R)
		assert.InDelta(t, v.Norm(), vR.Norm(), 1.e-12)
		assert.InDelta(t, v.Dot(w), vR.Dot(wR), 1.e-12)
	}
	// Quarter turn about z maps x to y
	{
		R := RotationMatrix(Vec3{0, 0, 1}, math.Pi/2)
		y := (Vec3{1, 0, 0}).Apply(R)
		assert.InDelta(t, 0, y[0], 1.e-12)
		assert.InDelta(t, 1, y[1], 1.e-12)
	}
}

func TestPartitionMap(t *testing.T) {
	// Buckets cover the index range exactly once, imbalance at most one
	for _, tc := range [][2]int{{4, 100}, {3, 7}, {8, 8}, {5, 3}, {1, 17}} {
		pm := NewPartitionMap(tc[0], tc[1])
		covered := make([]int, tc[1])
		minSize, maxSize := tc[1]+1, -1
		for n := 0; n < pm.ParallelDegree; n++ {
			lo, hi := pm.GetBucketRange(n)
			sz := hi - lo
			if sz < minSize {
				minSize = sz
			}
			if sz > maxSize {
				maxSize = sz
			}
			for k := lo; k < hi; k++ {
				covered[k]++
			}
		}
		for k := range covered {
			assert.Equal(t, 1, covered[k])
		}
		assert.LessOrEqual(t, maxSize-minSize, 1)
	}
	// RunParallel visits every index
	{
		pm := NewPartitionMap(4, 1000)
		visited := make([]int, 1000)
		pm.RunParallel(func(bn, kMin, kMax int) {
			for k := kMin; k < kMax; k++ {
				visited[k]++
			}
		})
		for k := range visited {
			assert.Equal(t, 1, visited[k])
		}
	}
}

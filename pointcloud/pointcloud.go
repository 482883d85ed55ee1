// Package pointcloud defines the flat, fixed-size point buffer that the octree is built from, along
// with the bounding volume arithmetic shared by the octree and the view code.
//
// A Cloud is immutable once created. The octree refers to its points by index and never copies them
// until they are packed for upload.
package pointcloud

// Cloud is a flat sequence of points plus the bounding volume that encloses them.
type Cloud struct {
	points []Point
	meta   MetaData
	bounds BoundingVolume
}

// NewCloud takes ownership of points and computes their bounding volume.
func NewCloud(points []Point) *Cloud {
	meta := NewMetaData()
	for _, p := range points {
		meta.Merge(p)
	}
	return &Cloud{points: points, meta: meta, bounds: meta.Bounds()}
}

// NewCloudWithBounds takes ownership of points and uses the caller supplied bounds instead of
// computing them.
func NewCloudWithBounds(points []Point, bounds BoundingVolume) *Cloud {
	cloud := NewCloud(points)
	cloud.bounds = bounds
	return cloud
}

// Len returns the number of points in the cloud.
func (cloud *Cloud) Len() int {
	return len(cloud.points)
}

// At returns the i-th point. It panics if i is out of range.
func (cloud *Cloud) At(i int) Point {
	return cloud.points[i]
}

// Bounds returns the bounding volume of the cloud.
func (cloud *Cloud) Bounds() BoundingVolume {
	return cloud.bounds
}

// MetaData returns the extent and colour information gathered when the cloud was created.
func (cloud *Cloud) MetaData() MetaData {
	return cloud.meta
}

// Iterate calls fn for each point in order. If fn returns false, iteration stops.
func (cloud *Cloud) Iterate(fn func(i int, p Point) bool) {
	for i, p := range cloud.points {
		if !fn(i, p) {
			return
		}
	}
}

package core

import "sync"

// IngestMetrics accumulates run-level counters across one composition. Each
// composer owns its own instance so that concurrent runs with different
// tolerances never share state. Safe for use from worker goroutines.
type IngestMetrics struct {
	mu             sync.Mutex
	filesParsed    int64
	filesFailed    int64
	trianglesRead  int64
	verticesUnique int64
	verticesMerged int64
	facesDropped   int64
}

// MetricsSnapshot is a point-in-time copy of the totals.
type MetricsSnapshot struct {
	FilesParsed    int64
	FilesFailed    int64
	TrianglesRead  int64
	VerticesUnique int64
	VerticesMerged int64
	FacesDropped   int64
}

func NewIngestMetrics() *IngestMetrics {
	return &IngestMetrics{}
}

// RecordFile folds one successfully ingested file into the running totals.
func (m *IngestMetrics) RecordFile(triangles, uniqueVertices, mergedVertices, droppedFaces int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filesParsed++
	m.trianglesRead += int64(triangles)
	m.verticesUnique += int64(uniqueVertices)
	m.verticesMerged += int64(mergedVertices)
	m.facesDropped += int64(droppedFaces)
}

// RecordFailure counts a file that did not survive ingestion.
func (m *IngestMetrics) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filesFailed++
}

func (m *IngestMetrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		FilesParsed:    m.filesParsed,
		FilesFailed:    m.filesFailed,
		TrianglesRead:  m.trianglesRead,
		VerticesUnique: m.verticesUnique,
		VerticesMerged: m.verticesMerged,
		FacesDropped:   m.facesDropped,
	}
}

package container

// debug.go exposes a JSON-serializable snapshot of a container's vital
// statistics, mirroring the teacher's own "/debug/arena-cache/snapshot"
// endpoint convention so that cmd/hashkernel-inspect has something real to
// fetch when a host application mounts SnapshotHandler.

import (
	"encoding/json"
	"net/http"
)

// Snapshot is the JSON payload a running process's debug endpoint serves.
type Snapshot struct {
	Shape     string `json:"shape"`
	Count     int    `json:"count"`
	Capacity  int    `json:"capacity"`
	SizeBytes int    `json:"size_bytes"`
}

func (b *base) snapshot() Snapshot {
	return Snapshot{
		Shape:     b.shape,
		Count:     b.Count(),
		Capacity:  b.Capacity(),
		SizeBytes: b.SizeBytes(true),
	}
}

// Snapshot returns the current Dictionary's vital statistics.
func (d *Dictionary) Snapshot() Snapshot { return d.base.snapshot() }

// Snapshot returns the current Set's vital statistics.
func (s *Set) Snapshot() Snapshot { return s.base.snapshot() }

// Snapshot returns the current Bag's vital statistics.
func (b *Bag) Snapshot() Snapshot { return b.base.snapshot() }

// SnapshotHandler wraps a snapshot function as an http.Handler, for a host
// application to mount at e.g. "/debug/hashkernel/snapshot".
func SnapshotHandler(snap func() Snapshot) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap())
	})
}

package presenter

import (
	"sync"
	"time"

	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
)

// FrameID is the fixed identifier of the mounted map element.
const FrameID = "flood-map-frame"

// Frame is a mounted map element pointing at server-rendered content.
type Frame struct {
	ID        string            `json:"id"`
	Src       string            `json:"src"`
	Level     domain.FloodLevel `json:"level"`
	MountedAt time.Time         `json:"mounted_at"`
}

// Surface is where map frames are mounted.
type Surface interface {
	Mount(f Frame)
	// Unmount removes the frame with the given id and reports whether one existed.
	Unmount(id string) bool
	Mounted() []Frame
}

// MemorySurface is an in-process Surface. It appends like a DOM container,
// so callers are responsible for unmounting before mounting.
type MemorySurface struct {
	mu     sync.Mutex
	frames []Frame
}

// NewMemorySurface returns an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

func (s *MemorySurface) Mount(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
}

func (s *MemorySurface) Unmount(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.frames {
		if f.ID == id {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			return true
		}
	}
	return false
}

func (s *MemorySurface) Mounted() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

package health

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"streetpaws/internal/domain/uploads"
	"streetpaws/internal/platform/logger"
)

// UploadsInspector es lo que el health check mira del directorio de fotos.
type UploadsInspector interface {
	Dir() string
	Stats() uploads.DirStats
}

// DiskUsage resume el volumen donde viven las fotos.
type DiskUsage struct {
	Path        string  `json:"path"`
	TotalBytes  uint64  `json:"totalBytes"`
	FreeBytes   uint64  `json:"freeBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

type Report struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    float64          `json:"uptime"` // segundos
	Uploads   uploads.DirStats `json:"uploads"`
	Disk      *DiskUsage       `json:"disk,omitempty"`
}

type Service struct {
	uploads UploadsInspector
	log     logger.Logger
	started time.Time
	now     func() time.Time
	usage   func(ctx context.Context, path string) (*disk.UsageStat, error)
}

func NewService(up UploadsInspector, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		uploads: up,
		log:     log.With(map[string]any{"module": "health"}),
		started: time.Now(),
		now:     time.Now,
		usage:   disk.UsageWithContext,
	}
}

// Check nunca falla: si no se pueden leer las métricas de disco se omiten.
func (s *Service) Check(ctx context.Context) Report {
	now := s.now()
	rep := Report{
		Status:    "healthy",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(s.started).Seconds(),
	}
	if s.uploads == nil {
		return rep
	}

	rep.Uploads = s.uploads.Stats()
	if !rep.Uploads.DirectoryExists {
		return rep
	}

	u, err := s.usage(ctx, s.uploads.Dir())
	if err != nil {
		s.log.Warn("disk usage unavailable", map[string]any{"dir": s.uploads.Dir(), "err": err})
		return rep
	}
	rep.Disk = &DiskUsage{
		Path:        u.Path,
		TotalBytes:  u.Total,
		FreeBytes:   u.Free,
		UsedPercent: u.UsedPercent,
	}
	return rep
}

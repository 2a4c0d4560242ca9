package cleanup

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/pkg/filestorage"
)

// orphanGraceWindow keeps very recent objects out of a sweep. A storage write
// lands before its attachment row commits, so an object younger than this may
// belong to an upload still in flight.
const orphanGraceWindow = 15 * time.Minute

// pathLister is the repository surface the sweeper needs
type pathLister interface {
	ListAllPaths(ctx context.Context) (map[string]struct{}, error)
}

var _ pathLister = (*repositories.AttachmentRepository)(nil)

// Sweeper reconciles the object store against the attachment table. Uploads
// whose database insert failed leave orphaned objects behind on purpose; this
// job is the documented cleanup for them.
type Sweeper struct {
	storage        filestorage.ObjectStorage
	bucket         string
	attachmentRepo pathLister
	logger         zerolog.Logger
	cron           *cron.Cron
}

// NewSweeper creates a new Sweeper
func NewSweeper(
	storage filestorage.ObjectStorage,
	bucket string,
	attachmentRepo pathLister,
	logger zerolog.Logger,
) *Sweeper {
	return &Sweeper{
		storage:        storage,
		bucket:         bucket,
		attachmentRepo: attachmentRepo,
		logger:         logger,
	}
}

// Start schedules the sweep on a cron expression
func (s *Sweeper) Start(schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := s.SweepOnce(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Orphaned attachment sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("Orphaned attachment sweep scheduled")
	return nil
}

// Stop halts the schedule, waiting for a running sweep to finish
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// SweepOnce removes every stored object with no attachment row referencing it.
// Objects younger than the grace window are skipped; they are picked up on a
// later run if they are genuine orphans.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	stored, err := s.storage.List(ctx, s.bucket)
	if err != nil {
		return err
	}

	referenced, err := s.attachmentRepo.ListAllPaths(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-orphanGraceWindow)

	var orphans []string
	for _, obj := range stored {
		if _, ok := referenced[obj.Path]; ok {
			continue
		}
		if obj.ModTime.After(cutoff) {
			continue
		}
		orphans = append(orphans, obj.Path)
	}

	if len(orphans) == 0 {
		s.logger.Debug().Int("objects", len(stored)).Msg("No orphaned attachments found")
		return nil
	}

	if err := s.storage.Remove(ctx, s.bucket, orphans); err != nil {
		return err
	}

	s.logger.Info().
		Int("removed", len(orphans)).
		Int("objects", len(stored)).
		Msg("Removed orphaned attachment objects")
	return nil
}

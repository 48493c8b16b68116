package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type DatasetArchiver interface {
	Archive(ctx context.Context) (string, error)
}

// DatasetArchiveJob uploads a snapshot of the training dataset.
type DatasetArchiveJob struct {
	archiver DatasetArchiver
	timeout  time.Duration
	logger   *zap.Logger
}

func NewDatasetArchiveJob(archiver DatasetArchiver, timeout time.Duration, logger *zap.Logger) *DatasetArchiveJob {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &DatasetArchiveJob{
		archiver: archiver,
		timeout:  timeout,
		logger:   logger,
	}
}

func (j *DatasetArchiveJob) Name() string { return "dataset_archive" }

func (j *DatasetArchiveJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	key, err := j.archiver.Archive(ctx)
	if err != nil {
		return err
	}
	j.logger.Info("dataset archived", zap.String("key", key))
	return nil
}

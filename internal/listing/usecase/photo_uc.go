package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

// PhotoUsecase uploads image batches with bounded concurrency. Empty blobs
// are skipped; the returned URLs keep the relative order of the remaining
// input regardless of which upload finishes first. The first failure cancels
// the rest of the batch and aborts the whole operation.
type PhotoUsecase struct {
	storage domain.PhotoStorage
	workers int
	logger  *logger.Logger
}

func NewPhotoUsecase(storage domain.PhotoStorage, workers int, log *logger.Logger) *PhotoUsecase {
	if workers < 1 {
		workers = 1
	}
	return &PhotoUsecase{storage: storage, workers: workers, logger: log}
}

func (uc *PhotoUsecase) UploadAll(ctx context.Context, blobs [][]byte) ([]string, error) {
	filtered := make([][]byte, 0, len(blobs))
	for _, blob := range blobs {
		if len(blob) > 0 {
			filtered = append(filtered, blob)
		}
	}
	if len(filtered) == 0 {
		return []string{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	urls := make([]string, len(filtered))
	sem := make(chan struct{}, uc.workers)
	var wg sync.WaitGroup
	var once sync.Once
	var uploadErr error

	for i, data := range filtered {
		wg.Add(1)
		go func(i int, data []byte) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			url, err := uc.storage.Upload(ctx, data)
			if err != nil {
				once.Do(func() {
					uploadErr = fmt.Errorf("%w: %w", domain.ErrImageUploadFailure, err)
					cancel()
				})
				return
			}
			urls[i] = url
		}(i, data)
	}
	wg.Wait()

	if uploadErr != nil {
		uc.logger.Error("PhotoUsecase.UploadAll: batch aborted", "images", len(filtered), "error", uploadErr.Error())
		return nil, uploadErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrImageUploadFailure, err)
	}

	uc.logger.Info("PhotoUsecase.UploadAll: batch uploaded", "images", len(filtered), "skipped_empty", len(blobs)-len(filtered))
	return urls, nil
}

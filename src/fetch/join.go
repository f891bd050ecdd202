// Package fetch retrieves a dataset's statistics and records concurrently, holds the
// loading state for a minimum display time, and discards responses that arrive after a
// newer dataset was opened.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/types"
)

// ErrFetch wraps every retrieval failure.
var ErrFetch = errors.New("fetch failed")

// ErrorLoading is the message front-ends show for a failed load.
const ErrorLoading = "Error loading data."

// DefaultFloor is the minimum time the loading state stays visible.
const DefaultFloor = 800 * time.Millisecond

// Source provides the two retrievals a dataset view needs.
type Source interface {
	Stats(ctx context.Context, id string) (types.DatasetStats, error)
	Records(ctx context.Context, id string) ([]types.SensorReading, error)
}

// Dataset is a fully loaded dataset.
type Dataset struct {
	ID      string
	Stats   types.DatasetStats
	Records []types.SensorReading
}

// Join issues both retrievals and a floor timer at once and returns only after all three
// settle. Either retrieval failing fails the whole join; no partial dataset is returned.
// A cancelled ctx ends the floor wait early but the retrievals are still awaited.
func Join(ctx context.Context, src Source, id string, floor time.Duration) (Dataset, error) {
	defer logging.TimeTrack(time.Now(), "fetch "+id)
	var (
		wg               sync.WaitGroup
		stats            types.DatasetStats
		records          []types.SensorReading
		statsErr, recErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		stats, statsErr = src.Stats(ctx, id)
	}()
	go func() {
		defer wg.Done()
		records, recErr = src.Records(ctx, id)
	}()
	go func() {
		defer wg.Done()
		if floor <= 0 {
			return
		}
		t := time.NewTimer(floor)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}()
	wg.Wait()

	if statsErr != nil {
		return Dataset{}, fmt.Errorf("%w: stats for dataset %s: %v", ErrFetch, id, statsErr)
	}
	if recErr != nil {
		return Dataset{}, fmt.Errorf("%w: records for dataset %s: %v", ErrFetch, id, recErr)
	}
	if err := ctx.Err(); err != nil {
		return Dataset{}, fmt.Errorf("%w: dataset %s: %v", ErrFetch, id, err)
	}
	return Dataset{ID: id, Stats: stats, Records: records}, nil
}

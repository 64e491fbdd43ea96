package waterfall

import "log"

// progressTracker logs row progress each time another interval percent of
// the image is done.
type progressTracker struct {
	logger       *log.Logger
	totalRows    int
	interval     int
	lastProgress int
}

func newProgressTracker(logger *log.Logger, totalRows, interval int) *progressTracker {
	return &progressTracker{
		logger:    logger,
		totalRows: totalRows,
		interval:  interval,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(rows int) {
	if p.logger == nil || p.interval <= 0 || p.totalRows == 0 {
		return
	}

	progress := rows * percentScale / p.totalRows
	if progress >= p.lastProgress+p.interval {
		p.logger.Printf("Progress: %d%% (%d/%d rows)", progress, rows, p.totalRows)
		p.lastProgress = progress
	}
}

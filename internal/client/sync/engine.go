package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/khoj-ai/khoj-sync/internal/client/workspace"
	"github.com/khoj-ai/khoj-sync/internal/khojapi"
)

const (
	// After backoffThreshold consecutive transfer failures the pass pauses to
	// give a crashed server time to restart; after abortThreshold it gives up.
	backoffThreshold = 3
	abortThreshold   = 6
	backoffWait      = 30 * time.Second
)

var (
	ErrTooManyFailures = errors.New("too many consecutive transfer failures")
)

// ContentClient is the remote side of a sync pass.
type ContentClient interface {
	Upload(ctx context.Context, params *khojapi.UploadParams) error
	Delete(ctx context.Context, path string) error
}

// Options tune the behavior of the sync engine.
type Options struct {
	// Interval between passes in continuous mode.
	Interval time.Duration

	// Once runs a single pass and stops.
	Once bool

	// MaxUploads caps uploads per pass; the rest wait for the next pass.
	MaxUploads int

	// SkipDeletes disables the delete phase. Set in files-list mode, where
	// an absent file means "not listed", not "removed".
	SkipDeletes bool

	// Backoff is the pause after repeated consecutive transfer failures.
	// Zero means the 30s default.
	Backoff time.Duration
}

// PassSummary reports what one sync pass did.
type PassSummary struct {
	Uploaded  int
	Deleted   int
	Unchanged int
	Failed    int
}

// SyncEngine runs sync passes: scan, reconcile, apply, journal. Transfers
// are sequential; the journal is updated per file, so a pass interrupted or
// partially failed never records work it did not finish.
type SyncEngine struct {
	workspace *workspace.Workspace
	scanner   *Scanner
	journal   *SyncJournal
	api       ContentClient
	opts      Options
}

func NewSyncEngine(ws *workspace.Workspace, scanner *Scanner, journal *SyncJournal, api ContentClient, opts Options) *SyncEngine {
	return &SyncEngine{
		workspace: ws,
		scanner:   scanner,
		journal:   journal,
		api:       api,
		opts:      opts,
	}
}

// Run executes passes until the context is cancelled or a pass fails
// fatally, or exactly one pass in once mode. In once mode, any failed
// transfer is reported as an error so the process can exit non-zero.
func (e *SyncEngine) Run(ctx context.Context) error {
	if e.opts.Once {
		summary, err := e.RunPass(ctx)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("sync pass completed with %d failed transfers", summary.Failed)
		}
		return nil
	}

	// a timer and not a ticker, so a pass that overruns the interval does
	// not queue up extra passes
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sync stopped")
			return nil
		case <-timer.C:
			// pass-fatal errors (journal writes, repeated transfer failures)
			// stop the loop so the operator notices; per-file errors don't
			// reach here
			if _, err := e.RunPass(ctx); err != nil {
				if ctx.Err() != nil {
					slog.Info("sync stopped")
					return nil
				}
				return err
			}
			timer.Reset(e.opts.Interval)
		}
	}
}

// RunPass performs one enumerate-reconcile-apply-persist cycle. Per-file
// transfer failures are counted but do not abort the pass; journal errors do.
func (e *SyncEngine) RunPass(ctx context.Context) (*PassSummary, error) {
	tStart := time.Now()

	local, err := e.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan local state: %w", err)
	}

	journalState, err := e.journal.GetState()
	if err != nil {
		return nil, fmt.Errorf("get journal state: %w", err)
	}

	plan := Reconcile(local, journalState)
	summary := &PassSummary{Unchanged: len(plan.Unchanged)}

	if !plan.HasChanges() {
		slog.Debug("sync pass", "changes", 0, "unchanged", summary.Unchanged, "took", time.Since(tStart))
		return summary, nil
	}

	slog.Debug("reconcile decisions", "uploads", len(plan.Uploads), "deletes", len(plan.Deletes), "unchanged", summary.Unchanged)

	backoff := e.opts.Backoff
	if backoff == 0 {
		backoff = backoffWait
	}

	consecutiveFailures := 0
	apply := func(path string, op func() error, onSuccess func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := op(); err != nil {
			summary.Failed++
			consecutiveFailures++
			slog.Error("sync", "path", path, "error", err)

			if consecutiveFailures > abortThreshold {
				return ErrTooManyFailures
			}
			if consecutiveFailures > backoffThreshold {
				slog.Warn("sync backing off, server may be restarting", "wait", backoff)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(backoff):
				}
			}
			return nil
		}

		consecutiveFailures = 0
		return onSuccess()
	}

	uploads := sortedPaths(plan.Uploads)
	if e.opts.MaxUploads > 0 && len(uploads) > e.opts.MaxUploads {
		slog.Debug("sync capping uploads", "pending", len(uploads), "max", e.opts.MaxUploads)
		uploads = uploads[:e.opts.MaxUploads]
	}

	for _, path := range uploads {
		meta := plan.Uploads[path]
		err := apply(path,
			func() error {
				return e.api.Upload(ctx, &khojapi.UploadParams{
					Path:     path,
					FilePath: e.workspace.AbsPath(path),
				})
			},
			func() error {
				slog.Info("sync", "op", "UPLOAD", "path", path, "size", humanize.Bytes(uint64(meta.Size)))
				summary.Uploaded++
				return e.journal.Set(meta)
			},
		)
		if err != nil {
			return summary, err
		}
	}

	if !e.opts.SkipDeletes {
		for _, path := range sortedPaths(plan.Deletes) {
			err := apply(path,
				func() error {
					err := e.api.Delete(ctx, path)
					if errors.Is(err, khojapi.ErrNotIndexed) {
						// server never had it, nothing left to retract
						return nil
					}
					return err
				},
				func() error {
					slog.Info("sync", "op", "DELETE", "path", path)
					summary.Deleted++
					return e.journal.Delete(path)
				},
			)
			if err != nil {
				return summary, err
			}
		}
	} else if len(plan.Deletes) > 0 {
		slog.Debug("sync using files list, skipping deletion check", "pending", len(plan.Deletes))
	}

	slog.Info("sync pass",
		"uploaded", summary.Uploaded,
		"deleted", summary.Deleted,
		"failed", summary.Failed,
		"unchanged", summary.Unchanged,
		"took", time.Since(tStart),
	)

	return summary, nil
}

func sortedPaths(m map[string]*FileMetadata) []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

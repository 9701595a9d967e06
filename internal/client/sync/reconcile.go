package sync

// SyncPlan is the outcome of one reconciliation: uploads for new or changed
// files, deletes for journaled paths gone locally, and the unchanged rest.
// The three sets partition the union of local and journal paths.
type SyncPlan struct {
	Uploads   map[string]*FileMetadata
	Deletes   map[string]*FileMetadata
	Unchanged map[string]struct{}
}

func newSyncPlan() *SyncPlan {
	return &SyncPlan{
		Uploads:   make(map[string]*FileMetadata),
		Deletes:   make(map[string]*FileMetadata),
		Unchanged: make(map[string]struct{}),
	}
}

// HasChanges reports whether the plan requires any network action.
func (p *SyncPlan) HasChanges() bool {
	return len(p.Uploads) > 0 || len(p.Deletes) > 0
}

// Reconcile compares the current local snapshot against the journal of
// files the server is believed to have.
//
// Modification time is the sole change signal; contents are never hashed.
// A file rewritten with its mtime preserved is treated as unchanged.
func Reconcile(local, journal map[string]*FileMetadata) *SyncPlan {
	plan := newSyncPlan()

	for path, meta := range local {
		prev, ok := journal[path]
		if !ok || !prev.LastModified.Equal(meta.LastModified) {
			plan.Uploads[path] = meta
		} else {
			plan.Unchanged[path] = struct{}{}
		}
	}

	for path, prev := range journal {
		if _, ok := local[path]; !ok {
			plan.Deletes[path] = prev
		}
	}

	return plan
}

package workspace

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/khoj-ai/khoj-sync/internal/utils"
)

const (
	metadataDir = ".khoj-sync"
	lockFile    = "khoj-sync.lock"
	journalFile = "journal.db"
	ignoreFile  = ".khojignore"
)

var (
	ErrWorkspaceLocked = errors.New("sync dir locked by another khoj-sync process")
)

// Workspace is the sync directory plus the tool's own metadata under it.
// Running two khoj-sync processes against the same sync dir is unsafe, so
// the metadata dir carries a lock file taken for the process lifetime.
type Workspace struct {
	Root        string
	MetadataDir string
	JournalPath string
	IgnorePath  string

	flock *flock.Flock
}

func NewWorkspace(syncDir string) (*Workspace, error) {
	root, err := utils.ResolvePath(syncDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", syncDir, err)
	}

	metaDir := filepath.Join(root, metadataDir)
	lockFilePath := filepath.Join(metaDir, lockFile)

	return &Workspace{
		Root:        root,
		MetadataDir: metaDir,
		JournalPath: filepath.Join(metaDir, journalFile),
		IgnorePath:  filepath.Join(root, ignoreFile),
		flock:       flock.New(lockFilePath),
	}, nil
}

// MetadataDirName is the directory name scans must never descend into.
func MetadataDirName() string {
	return metadataDir
}

// AbsPath resolves a sync-dir-relative path against the workspace root.
func (w *Workspace) AbsPath(relPath string) string {
	return filepath.Join(w.Root, filepath.FromSlash(relPath))
}

func (w *Workspace) Lock() error {
	if err := utils.EnsureDir(w.MetadataDir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.MetadataDir, err)
	}

	locked, err := w.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock sync dir: %w", err)
	}
	if !locked {
		return ErrWorkspaceLocked
	}

	return nil
}

func (w *Workspace) Unlock() error {
	if !w.flock.Locked() {
		return nil
	}

	if err := w.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock sync dir: %w", err)
	}
	return nil
}

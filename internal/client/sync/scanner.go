package sync

import (
	"bufio"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/khoj-ai/khoj-sync/internal/utils"
)

// allowedExtensions are the document types the Khoj server can index.
// Everything else is skipped during a scan.
var allowedExtensions = mapset.NewSet(
	".org", ".md", ".markdown", ".pdf", ".txt", ".rst", ".xml", ".htm", ".html",
	".doc", ".docx", ".py", ".js", ".css", ".yaml", ".yml", ".sh", ".json",
)

// Scanner produces the current snapshot of sync-eligible files under a root
// directory, or from an explicit files list when one is configured.
// Symbolic links are never followed.
type Scanner struct {
	root         string
	filesList    string
	excludedDirs mapset.Set[string]
	ignore       *SyncIgnoreList
}

func NewScanner(root string, excludedDirs []string, filesList string, ignore *SyncIgnoreList) *Scanner {
	return &Scanner{
		root:         root,
		filesList:    filesList,
		excludedDirs: mapset.NewSet(excludedDirs...),
		ignore:       ignore,
	}
}

// Scan returns the current set of eligible files keyed by their relative
// slash path. Unreadable entries are logged and skipped; the scan continues.
func (s *Scanner) Scan() (map[string]*FileMetadata, error) {
	if s.filesList != "" {
		return s.scanFilesList()
	}
	return s.scanTree()
}

func (s *Scanner) scanTree() (map[string]*FileMetadata, error) {
	snapshot := make(map[string]*FileMetadata)

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			slog.Warn("scan", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != s.root && s.excludedDirs.Contains(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		// regular files only, symlinks are never followed
		if !d.Type().IsRegular() {
			return nil
		}

		if !allowedExtensions.Contains(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("scan rel path: %w", err)
		}
		relPath = utils.NormPath(relPath)

		if s.ignore != nil && s.ignore.ShouldIgnore(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			slog.Warn("scan stat", "path", path, "error", err)
			return nil
		}

		snapshot[relPath] = &FileMetadata{
			Path:         relPath,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return snapshot, nil
}

// scanFilesList reads newline-separated paths, one file per line. Blank
// lines and `#` comments are skipped, absolute paths are re-rooted under the
// sync dir, and entries that no longer exist are logged and dropped.
func (s *Scanner) scanFilesList() (map[string]*FileMetadata, error) {
	file, err := os.Open(s.filesList)
	if err != nil {
		return nil, fmt.Errorf("open files list: %w", err)
	}
	defer file.Close()

	snapshot := make(map[string]*FileMetadata)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		relPath := line
		if filepath.IsAbs(line) {
			rel, err := filepath.Rel(s.root, line)
			if err != nil || strings.HasPrefix(rel, "..") {
				slog.Warn("scan skipping file outside sync dir", "path", line)
				continue
			}
			relPath = rel
		}
		relPath = utils.NormPath(relPath)

		absPath := filepath.Join(s.root, filepath.FromSlash(relPath))
		info, err := os.Stat(absPath)
		if err != nil {
			slog.Warn("scan file not found", "path", relPath)
			continue
		}
		if info.IsDir() {
			slog.Warn("scan skipping directory entry", "path", relPath)
			continue
		}

		snapshot[relPath] = &FileMetadata{
			Path:         relPath,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read files list: %w", err)
	}

	return snapshot, nil
}

package sync

import (
	"bufio"
	"log/slog"
	"os"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/khoj-ai/khoj-sync/internal/utils"
)

var defaultIgnoreLines = []string{
	// khoj-sync's own artifacts
	".khojignore",
	".khoj-sync/",
	"khoj-sync.ini",
	"khoj-sync.log",
	// IDE/Editor-specific
	".vscode",
	".idea",
	// General excludes
	"*.tmp",
	"logs/",
	// OS-specific
	".DS_Store",
	"Thumbs.db",
}

// SyncIgnoreList filters scanned paths with gitignore semantics. Rules come
// from a built-in list plus an optional .khojignore file in the sync dir.
type SyncIgnoreList struct {
	ignorePath string
	ignore     *gitignore.GitIgnore
}

func NewSyncIgnoreList(ignorePath string) *SyncIgnoreList {
	return &SyncIgnoreList{ignorePath: ignorePath}
}

func (s *SyncIgnoreList) Load() {
	ignoreLines := defaultIgnoreLines

	if utils.FileExists(s.ignorePath) {
		rules := 0
		file, err := os.Open(s.ignorePath)
		if err != nil {
			slog.Warn("Failed to open ignore file", "path", s.ignorePath, "error", err)
		} else {
			defer file.Close()

			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := scanner.Text()
				if line != "" {
					ignoreLines = append(ignoreLines, line)
					rules++
				}
			}

			if err := scanner.Err(); err != nil {
				slog.Warn("Error reading ignore file", "path", s.ignorePath, "error", err)
			} else {
				slog.Debug("Loaded ignore file", "path", s.ignorePath, "rules", rules)
			}
		}
	}

	s.ignore = gitignore.CompileIgnoreLines(ignoreLines...)
}

func (s *SyncIgnoreList) ShouldIgnore(path string) bool {
	return s.ignore.MatchesPath(path)
}

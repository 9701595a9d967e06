// Package client wires configuration, workspace, journal and the Khoj API
// into a runnable sync client.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/khoj-ai/khoj-sync/internal/client/config"
	"github.com/khoj-ai/khoj-sync/internal/client/sync"
	"github.com/khoj-ai/khoj-sync/internal/client/workspace"
	"github.com/khoj-ai/khoj-sync/internal/khojapi"
	"github.com/khoj-ai/khoj-sync/internal/utils"
)

type Client struct {
	config    *config.Config
	workspace *workspace.Workspace
	scanner   *sync.Scanner
	journal   *sync.SyncJournal
	engine    *sync.SyncEngine
	api       *khojapi.KhojAPI
}

// New builds a client from a validated config.
func New(cfg *config.Config) (*Client, error) {
	ws, err := workspace.NewWorkspace(cfg.SyncDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	api, err := khojapi.New(cfg.ServerURL, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	ignore := sync.NewSyncIgnoreList(ws.IgnorePath)
	ignore.Load()

	excludedDirs := append(slices.Clone(cfg.ExcludedDirs), workspace.MetadataDirName())
	scanner := sync.NewScanner(ws.Root, excludedDirs, cfg.FilesList, ignore)
	journal := sync.NewSyncJournal(ws.JournalPath)

	interval, err := cfg.Interval()
	if err != nil {
		return nil, fmt.Errorf("invalid sync frequency: %w", err)
	}

	engine := sync.NewSyncEngine(ws, scanner, journal, api.Content, sync.Options{
		Interval:    interval,
		Once:        cfg.Once,
		MaxUploads:  cfg.MaxUploads,
		SkipDeletes: cfg.FilesList != "",
	})

	return &Client{
		config:    cfg,
		workspace: ws,
		scanner:   scanner,
		journal:   journal,
		engine:    engine,
		api:       api,
	}, nil
}

// Start locks the sync dir, opens the journal and runs the sync engine
// until the context is cancelled (or one pass in once mode).
func (c *Client) Start(ctx context.Context) error {
	slog.Info("khoj-sync",
		"server", c.config.ServerURL,
		"syncDir", c.workspace.Root,
		"apiKey", utils.MaskSecret(c.config.APIKey),
		"frequency", c.config.Frequency,
		"once", c.config.Once,
	)
	slog.Debug("change detection is mtime-based; rewrites that preserve mtime are not re-uploaded")

	if err := c.workspace.Lock(); err != nil {
		return err
	}
	defer c.workspace.Unlock()

	if err := c.journal.Open(); err != nil {
		return err
	}
	defer c.journal.Close()
	defer c.api.Close()

	return c.engine.Run(ctx)
}

// Plan computes what a sync pass would do without touching the network or
// the journal contents. Used by the list command.
func (c *Client) Plan(ctx context.Context) (*sync.SyncPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.journal.Open(); err != nil {
		return nil, err
	}
	defer c.journal.Close()

	local, err := c.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan local state: %w", err)
	}

	journalState, err := c.journal.GetState()
	if err != nil {
		return nil, fmt.Errorf("get journal state: %w", err)
	}

	plan := sync.Reconcile(local, journalState)
	if c.config.FilesList != "" {
		// files-list mode never deletes
		plan.Deletes = make(map[string]*sync.FileMetadata)
	}

	return plan, nil
}

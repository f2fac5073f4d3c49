package personality

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/pkg/logx"
)

// Provider supplies the system instruction for prompt construction.
type Provider interface {
	SystemPrompt() string
}

// Static returns a fixed prompt. Used when no prompt file is configured.
type Static string

func (s Static) SystemPrompt() string { return string(s) }

// FileProvider reads the system prompt from a file and hot-reloads it when
// the file changes, no restart required. A missing or empty file falls back
// to the built-in default.
type FileProvider struct {
	path   string
	mu     sync.RWMutex
	prompt string
	logger *logx.Logger
}

func NewFileProvider(ctx context.Context, path string) *FileProvider {
	p := &FileProvider{
		path:   path,
		prompt: config.DefaultSystemPrompt,
		logger: logx.NewLogger("Personality"),
	}
	if err := p.Reload(); err != nil {
		p.logger.Warn("Prompt file not readable, using default", "path", path, "error", err)
	}
	go p.watch(ctx)
	return p
}

func (p *FileProvider) SystemPrompt() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prompt
}

func (p *FileProvider) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		prompt = config.DefaultSystemPrompt
	}

	p.mu.Lock()
	p.prompt = prompt
	p.mu.Unlock()
	p.logger.Info("System prompt loaded", "path", p.path, "bytes", len(prompt))
	return nil
}

// watch reloads on writes to the prompt file. Watching the directory also
// catches editors that replace the file instead of writing in place.
func (p *FileProvider) watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("Could not start prompt watcher", "error", err)
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		p.logger.Error("Could not watch prompt directory", "dir", dir, "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(p.path) {
				continue
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				if err := p.Reload(); err != nil {
					p.logger.Error("Prompt reload failed", "error", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("Prompt watcher error", "error", err)
		}
	}
}

package personality

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/anvesht/ragline/internal/config"
)

func TestStatic(t *testing.T) {
	p := Static("be terse")
	if got := p.SystemPrompt(); got != "be terse" {
		t.Errorf("prompt got %q, want %q", got, "be terse")
	}
}

func TestFileProvider_LoadsFromFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("  answer like a pirate  \n"), 0644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}

	p := NewFileProvider(ctx, path)
	if got := p.SystemPrompt(); got != "answer like a pirate" {
		t.Errorf("prompt got %q, want trimmed file content", got)
	}
}

func TestFileProvider_MissingFileFallsBackToDefault(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewFileProvider(ctx, filepath.Join(t.TempDir(), "missing.txt"))
	if got := p.SystemPrompt(); got != config.DefaultSystemPrompt {
		t.Errorf("prompt got %q, want the built-in default", got)
	}
}

func TestFileProvider_EmptyFileFallsBackToDefault(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("   \n\n"), 0644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}

	p := NewFileProvider(ctx, path)
	if got := p.SystemPrompt(); got != config.DefaultSystemPrompt {
		t.Errorf("prompt got %q, want the built-in default", got)
	}
}

func TestFileProvider_Reload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}

	p := NewFileProvider(ctx, path)
	if got := p.SystemPrompt(); got != "first" {
		t.Fatalf("prompt got %q, want %q", got, "first")
	}

	if err := os.WriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("rewrite prompt: %v", err)
	}
	if err := p.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := p.SystemPrompt(); got != "second" {
		t.Errorf("prompt got %q, want %q after reload", got, "second")
	}
}

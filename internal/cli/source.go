package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/beetflow"
	"github.com/aretw0/beetflow/internal/logging"
	"github.com/aretw0/beetflow/pkg/adapters/file"
)

// NewLogger configures the application logger.
// In debug mode, it writes to Stderr to keep Stdout for trees and traces.
func NewLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelWarn)
}

// IsFile reports whether arg names an existing regular file.
func IsFile(arg string) bool {
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

// ReadSource returns the raw definition arg refers to: a file path, or a
// tree name looked up in dir.
func ReadSource(arg, dir string) ([]byte, string, error) {
	if IsFile(arg) {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", arg, err)
		}
		name := filepath.Base(arg)
		return data, name[:len(name)-len(filepath.Ext(name))], nil
	}
	data, err := file.NewLoader(dir).GetTree(arg)
	if err != nil {
		return nil, "", err
	}
	return data, arg, nil
}

// Open creates an engine with opts and spawns the tree arg refers to.
func Open(ctx context.Context, arg, dir string, opts ...beetflow.Option) (*beetflow.Engine, beetflow.Entity, error) {
	if IsFile(arg) {
		data, _, err := ReadSource(arg, dir)
		if err != nil {
			return nil, 0, err
		}
		eng, err := beetflow.New(opts...)
		if err != nil {
			return nil, 0, err
		}
		root, err := eng.LoadBytes(data)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", arg, err)
		}
		return eng, root, nil
	}

	eng, err := beetflow.New(append([]beetflow.Option{beetflow.WithDir(dir)}, opts...)...)
	if err != nil {
		return nil, 0, err
	}
	root, err := eng.Load(ctx, arg)
	if err != nil {
		return nil, 0, err
	}
	return eng, root, nil
}

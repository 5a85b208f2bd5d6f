package cli

import (
	"path/filepath"

	"github.com/aretw0/beetflow"
	"github.com/aretw0/beetflow/pkg/adapters/process"
	"github.com/aretw0/beetflow/pkg/registry"
)

// DefaultToolsFile is looked up in the tree directory when no tools file
// is given.
const DefaultToolsFile = "tools.yaml"

// EngineOptions returns the options shared by every command: the built-in
// actions plus the "process" action, allowed to run the tools listed in
// toolsPath (or tools.yaml in dir). Processes run in dir.
func EngineOptions(dir, toolsPath string) ([]beetflow.Option, error) {
	if toolsPath == "" {
		toolsPath = filepath.Join(dir, DefaultToolsFile)
	}
	tools, err := process.LoadTools(toolsPath)
	if err != nil {
		return nil, err
	}
	runner := process.NewRunner(process.WithTools(tools), process.WithBaseDir(dir))

	reg := registry.Default()
	process.Register(reg)
	return []beetflow.Option{
		beetflow.WithRegistry(reg),
		beetflow.WithPlugins(process.Plugin{Runner: runner}),
	}, nil
}

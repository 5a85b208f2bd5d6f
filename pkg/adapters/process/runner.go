package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"
)

// EnvPrefix prefixes the environment variables carrying call arguments.
const EnvPrefix = "BEETFLOW_ARG_"

// ErrNotRegistered is returned for tools missing from the allow-list.
var ErrNotRegistered = errors.New("process tool not registered")

// Runner executes local processes. Only registered tools run, unless inline
// execution is enabled.
type Runner struct {
	mu          sync.RWMutex
	registry    map[string]ToolConfig
	allowInline bool
	baseDir     string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithTools populates the allow-list from a loaded config.
func WithTools(tools map[string]ToolConfig) RunnerOption {
	return func(r *Runner) {
		for name, tool := range tools {
			tool.Name = name
			r.registry[name] = tool
		}
	}
}

// WithInlineExecution lets calls name a command directly.
func WithInlineExecution(allow bool) RunnerOption {
	return func(r *Runner) {
		r.allowInline = allow
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]ToolConfig),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list.
func (r *Runner) Register(name string, command string, args ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry[name] = ToolConfig{Name: name, Command: command, Args: args}
}

// Tools returns the registered tool names, sorted.
func (r *Runner) Tools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call names what to execute. Env values are passed as environment
// variables, never as command-line arguments.
type Call struct {
	Tool    string
	Command string
	Args    []string
	Env     map[string]any
}

// Result is the outcome of a process. Output is the decoded JSON document
// when stdout holds one, the trimmed text otherwise.
type Result struct {
	Output   any
	Stderr   string
	ExitCode int
}

func (r *Runner) resolve(call Call) (ToolConfig, error) {
	if call.Tool != "" {
		r.mu.RLock()
		tool, ok := r.registry[call.Tool]
		r.mu.RUnlock()
		if !ok {
			return ToolConfig{}, fmt.Errorf("%w: %s", ErrNotRegistered, call.Tool)
		}
		return tool, nil
	}
	if call.Command == "" {
		return ToolConfig{}, fmt.Errorf("call names neither a tool nor a command")
	}
	if !r.allowInline {
		return ToolConfig{}, fmt.Errorf("%w: inline command %q (inline execution disabled)", ErrNotRegistered, call.Command)
	}
	return ToolConfig{Command: call.Command, Args: call.Args}, nil
}

// Execute runs call and waits for it. A non-zero exit is an error; the
// result still carries the exit code and stderr.
func (r *Runner) Execute(ctx context.Context, call Call) (Result, error) {
	tool, err := r.resolve(call)
	if err != nil {
		return Result{ExitCode: -1}, err
	}

	cmd := exec.CommandContext(ctx, tool.Command, tool.Args...)
	cmd.Dir = r.baseDir
	cmd.Env = cmd.Environ()
	for k, v := range tool.Environment {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	for k, v := range call.Env {
		cmd.Env = append(cmd.Env, EnvPrefix+envKey(k)+"="+envValue(v))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{
		Output: decodeOutput(stdout.String()),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if runErr != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("execution cancelled: %w", ctx.Err())
		}
		return res, fmt.Errorf("execution failed: %w. Stderr: %s", runErr, strings.TrimSpace(res.Stderr))
	}
	return res, nil
}

func envKey(k string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, k)
}

// envValue formats primitives as text and everything else as JSON.
func envValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int, int64, float64, bool:
		return fmt.Sprintf("%v", v)
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

func decodeOutput(out string) any {
	trimmed := strings.TrimSpace(out)
	if (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
		var doc any
		if err := json.Unmarshal([]byte(trimmed), &doc); err == nil {
			return doc
		}
	}
	return trimmed
}

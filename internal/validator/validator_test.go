package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/internal/compiler"
	"github.com/aretw0/beetflow/pkg/registry"
)

func TestValidateTree(t *testing.T) {
	parser := compiler.NewParser()
	reg := registry.Default()

	tests := []struct {
		name    string
		src     string
		wantErr []string
	}{
		{
			name: "valid state machine",
			src: `
action: parallel
children:
  - name: idle
    action: end_with
    state: idle
  - name: jump
    action: end_with
    with:
      - action: run_next
        params: {next: idle}
  - action: sequence
    children:
      - action: succeed_times
        params: {times: 2}
      - action: loop_times
        params: {max_times: 3}
`,
		},
		{
			name:    "unknown action and marker",
			src:     "action: sequence\nmarkers: [sticky]\nchildren:\n  - action: teleport\n",
			wantErr: []string{`unknown action "teleport"`, `unknown marker "sticky"`},
		},
		{
			name:    "repeat without child",
			src:     "action: repeat\n",
			wantErr: []string{"exactly one child"},
		},
		{
			name:    "loop at root",
			src:     "action: loop_times\nparams: {max_times: 1}\n",
			wantErr: []string{"cannot be the root"},
		},
		{
			name:    "loop at root under with",
			src:     "action: end_with\nwith: [{action: loop_times, params: {max_times: 1}}]\n",
			wantErr: []string{"cannot be the root"},
		},
		{
			name:    "repeat under with without child",
			src:     "action: sequence\nchildren:\n  - action: end_with\n    with: [{action: repeat}]\n",
			wantErr: []string{"exactly one child"},
		},
		{
			name:    "unknown with action",
			src:     "action: end_with\nwith: [{action: glow}]\n",
			wantErr: []string{`unknown action "glow"`},
		},
		{
			name:    "run_next without target",
			src:     "action: end_with\nwith: [{action: run_next}]\n",
			wantErr: []string{"requires next"},
		},
		{
			name:    "bad params",
			src:     "action: end_in_duration\nparams: {duration: soon}\n",
			wantErr: []string{"invalid params"},
		},
		{
			name: "duplicate state and broken jump",
			src: `
action: sequence
children:
  - {action: end_with, state: a}
  - {action: end_with, state: a}
  - {action: end_with, with: [{action: run_next, params: {next: b}}]}
`,
			wantErr: []string{`state "a" already declared`, `undeclared state "b"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := parser.Parse([]byte(tt.src))
			require.NoError(t, err)

			err = ValidateTree(def, reg)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

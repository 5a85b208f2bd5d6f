package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/beetflow/internal/compiler"
)

func TestParse_YAML(t *testing.T) {
	src := `
name: patrol
action: sequence
children:
  - name: check
    action: condition
    params: {expr: "battery > 20"}
  - name: walk
    action: end_in_duration
    params: {duration: 2s, outcome: pass}
    markers: [no_interrupt]
    state: walking
`
	def, err := compiler.NewParser().Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "patrol", def.Name)
	require.Len(t, def.Children, 2)
	assert.Equal(t, "battery > 20", def.Children[0].Params["expr"])
	assert.Equal(t, "2s", def.Children[1].Params["duration"])
	assert.Equal(t, []string{"no_interrupt"}, def.Children[1].Markers)
	assert.Equal(t, "walking", def.Children[1].State)
}

func TestParse_JSON(t *testing.T) {
	src := `{"name": "root", "action": "fallback", "children": [{"action": "end_with", "params": {"outcome": "fail"}}]}`
	def, err := compiler.NewParser().Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "fallback", def.Action)
	assert.Equal(t, "end_with", def.Children[0].Label())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "empty", src: "  \n", want: "empty"},
		{name: "missing action", src: "name: root\nchildren:\n  - name: leaf\n    action: end_with\n", want: "missing action"},
		{name: "nested missing action", src: "action: sequence\nchildren:\n  - name: leaf\n", want: "sequence/leaf"},
		{name: "unknown field", src: "action: sequence\nkids: []\n", want: "kids"},
		{name: "malformed", src: "action: [", want: "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

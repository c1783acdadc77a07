package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffTokens(t *testing.T) {
	tests := []struct {
		name            string
		current         []string
		desired         []string
		expectedAdds    []string
		expectedRemoves []string
	}{
		{
			name:            "empty to empty",
			current:         nil,
			desired:         nil,
			expectedAdds:    nil,
			expectedRemoves: nil,
		},
		{
			name:            "all new",
			current:         nil,
			desired:         []string{"a", "b"},
			expectedAdds:    []string{"a", "b"},
			expectedRemoves: nil,
		},
		{
			name:            "desired empty removes everything",
			current:         []string{"a", "b"},
			desired:         []string{},
			expectedAdds:    nil,
			expectedRemoves: []string{"a", "b"},
		},
		{
			name:            "overlap keeps shared tokens",
			current:         []string{"a", "b"},
			desired:         []string{"b", "c"},
			expectedAdds:    []string{"c"},
			expectedRemoves: []string{"a"},
		},
		{
			name:            "identical sets are a no-op",
			current:         []string{"a", "b"},
			desired:         []string{"b", "a"},
			expectedAdds:    nil,
			expectedRemoves: nil,
		},
		{
			name:            "duplicates in desired collapse",
			current:         nil,
			desired:         []string{"a", "a", "a"},
			expectedAdds:    []string{"a"},
			expectedRemoves: nil,
		},
		{
			name:            "duplicate of owned token is idempotent",
			current:         []string{"a"},
			desired:         []string{"a", "a"},
			expectedAdds:    nil,
			expectedRemoves: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adds, removes := diffTokens(tt.current, tt.desired)
			assert.Equal(t, tt.expectedAdds, adds)
			assert.Equal(t, tt.expectedRemoves, removes)
		})
	}
}

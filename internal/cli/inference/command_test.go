package inference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/WilliamVenner/wry/internal/cli/inference"
)

func TestInferCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"session.ndjson"}, "replay"},
		{[]string{"logs/Session.JSONL", "--json"}, "replay"},
		{[]string{"run"}, ""},
		{[]string{"--config", "x.ndjson"}, ""},
		{[]string{"notes.txt"}, ""},
	}
	for _, tt := range tests {
		got, _ := inference.InferCommand(tt.args)
		assert.Equal(t, tt.want, got, "%v", tt.args)
	}
}

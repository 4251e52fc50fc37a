package inference

import (
	"path/filepath"
	"strings"
)

var replayExts = map[string]bool{
	".ndjson": true,
	".jsonl":  true,
}

func InferCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	first := args[0]
	if strings.HasPrefix(first, "-") {
		return "", args
	}

	// A recorded message file on its own means replay it.
	if replayExts[strings.ToLower(filepath.Ext(first))] {
		return "replay", args
	}

	return "", args
}

package output

import (
	"strings"

	"github.com/WilliamVenner/wry/internal/domain/rpc"
)

// Reply is what the host did with one inbound message.
type Reply struct {
	Line   int    `json:"line"`
	Route  string `json:"route,omitempty"`
	ID     string `json:"id,omitempty"`
	Method string `json:"method,omitempty"`
	// Error is set when the message did not decode.
	Error   string   `json:"error,omitempty"`
	Scripts []string `json:"scripts"`
}

// NewReply describes the message raw and the reply statements it produced.
func NewReply(line int, raw string, scripts []string) Reply {
	r := Reply{Line: line, Scripts: scripts}
	if r.Scripts == nil {
		r.Scripts = []string{}
	}
	env, err := rpc.Decode(raw)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Route = env.Route()
	r.Method = env.Method
	if env.ID != nil {
		r.ID = env.ID.String()
	}
	return r
}

// Outcome summarises the reply for display.
func (r Reply) Outcome() string {
	switch {
	case r.Error != "":
		return "dropped"
	case len(r.Scripts) == 0:
		return "no reply"
	default:
		return "replied"
	}
}

func (r Reply) Text(joiner string) string {
	if r.Error != "" {
		return r.Error
	}
	return strings.Join(r.Scripts, joiner)
}

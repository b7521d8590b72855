package starter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"moff.io/chia-walletconnect/internal/config"
)

type recorder struct {
	events *[]string
	name   string
}

func (r recorder) Start(context.Context) {
	*r.events = append(*r.events, "start "+r.name)
}

type configurableRecorder struct {
	recorder
}

func (r configurableRecorder) Apply(c *config.Configuration) {
	*r.events = append(*r.events, "apply "+r.name+" "+c.HTTP.Listen)
}

func TestStartOrder(t *testing.T) {
	var events []string
	cfg := config.Default()
	Start(context.Background(), &cfg,
		recorder{events: &events, name: "a"},
		configurableRecorder{recorder{events: &events, name: "b"}},
	)
	assert.Equal(t, []string{"start a", "apply b :8080", "start b"}, events)
}

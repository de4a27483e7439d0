package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jengzang/smartcity-backend-go/internal/logger"
)

func TestNotifyLogOnly(t *testing.T) {
	var buf bytes.Buffer
	logger.SetupWriter(&buf)
	t.Cleanup(func() { logger.Setup() })

	n, err := NewRedis(context.Background(), "", "events")
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer n.Close()

	n.Notify(context.Background(), EventComplaintCreated, map[string]interface{}{"id": "abc"})

	out := buf.String()
	if !strings.Contains(out, "event="+EventComplaintCreated) {
		t.Errorf("log missing event: %s", out)
	}
	if !strings.Contains(out, "component=notify") {
		t.Errorf("log missing component: %s", out)
	}
}

package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJob is the Pushgateway job name for snapshot runs.
const PushJob = "windmap"

// Push sends everything in gatherer to the Pushgateway at url.
func Push(ctx context.Context, url string, gatherer prometheus.Gatherer) error {
	if err := push.New(url, PushJob).Gatherer(gatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

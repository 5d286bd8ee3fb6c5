package ivr

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Dispatcher uploads finished audio and fires throttled call-outs.
type Dispatcher struct {
	client   *Client
	throttle *Throttle
	callout  CalloutRequest
	now      func() time.Time
	logger   *log.Logger
}

// NewDispatcher builds a dispatcher. A nil throttle disables call-outs.
func NewDispatcher(client *Client, throttle *Throttle, callout CalloutRequest, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		client:   client,
		throttle: throttle,
		callout:  callout,
		now:      time.Now,
		logger:   logger,
	}
}

// Deliver uploads file to target. Any HTTP answer counts as delivered; only
// transport and file errors are returned.
func (d *Dispatcher) Deliver(ctx context.Context, file, target string) (UploadResult, error) {
	res, err := d.client.Upload(ctx, file, target)
	if err != nil {
		return UploadResult{}, err
	}
	d.logger.Info("uploaded", "path", target, "status", res.Status, "response", res.Body)

	if d.throttle == nil {
		return res, nil
	}
	if !d.throttle.Record(d.now()) {
		pending, _ := d.throttle.State()
		d.logger.Debug("callout deferred", "pending", pending)
		return res, nil
	}

	res.CalloutFired = true
	body, err := d.client.Callout(ctx, d.callout)
	if err != nil {
		d.logger.Warn("callout failed", "err", err, "response", body)
		return res, nil
	}
	d.logger.Info("callout sent", "response", body)
	return res, nil
}

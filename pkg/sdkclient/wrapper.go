package sdkclient

import (
	"fmt"
	"sync"
	"time"

	"github.com/centrifugal/centrifuge-go"
	"github.com/sirupsen/logrus"
)

// subscribeRetryDelay is the pause before retrying a failed subscription.
const subscribeRetryDelay = time.Second

// centrifugeClientWrapper exists to obfuscate the callback handlers of the
// Centrifuge client away from consumers of this package. Consumers should not
// be interacting with Centrifuge directly, instead using the abstraction
// provided by this package.
type (
	// AllocateCallback is a function called when an Allocate event is received
	// from the SDK daemon.
	AllocateCallback func(AllocateEvent)

	// DeallocateCallback is a function called when a Deallocate event is
	// received from the SDK daemon.
	DeallocateCallback func(DeallocateEvent)

	centrifugeClientWrapper struct {
		*centrifuge.Client

		sub *centrifuge.Subscription

		logger *logrus.Entry

		errc      chan error
		done      chan struct{}
		closeOnce sync.Once

		allocateFunc   AllocateCallback
		deallocateFunc DeallocateCallback
	}
)

// OnMessage implements centrifuge.MessageHandler.
func (c *centrifugeClientWrapper) OnMessage(_ *centrifuge.Client, e centrifuge.MessageEvent) {
	c.dispatch(e.Data)
}

// OnPublish implements centrifuge.PublishHandler.
func (c *centrifugeClientWrapper) OnPublish(_ *centrifuge.Subscription, e centrifuge.PublishEvent) {
	c.dispatch(e.Data)
}

// dispatch decodes one event and hands it to the registered callback.
func (c *centrifugeClientWrapper) dispatch(data []byte) {
	evt, err := UnmarshalEventJSON(data)
	if err != nil {
		c.reportError(err)

		return
	}

	c.logger.
		WithField("event", evt.Type().String()).
		Debug("event received")

	switch evt.Type() {
	case AllocateEventType:
		if c.allocateFunc != nil {
			c.allocateFunc(evt.(AllocateEvent))
		}
	case DeallocateEventType:
		if c.deallocateFunc != nil {
			c.deallocateFunc(evt.(DeallocateEvent))
		}
	}
}

// reportError queues err for Errors() without blocking the centrifuge callback.
func (c *centrifugeClientWrapper) reportError(err error) {
	select {
	case c.errc <- err:
	default:
		c.logger.WithError(err).Warn("sdk client error dropped")
	}
}

// OnSubscribeError implements centrifuge.SubscribeErrorHandler.
func (c *centrifugeClientWrapper) OnSubscribeError(s *centrifuge.Subscription, e centrifuge.SubscribeErrorEvent) {
	c.logger.
		WithError(SubscribeError(e.Error)).
		WithField("channel", s.Channel()).
		Error("failed to subscribe")

	// Retry connecting to the SDK daemon. In some cases the server may be
	// attempting to connect before the SDK daemon has registered the existence
	// of the server.
	select {
	case <-c.done:
		return
	case <-time.After(subscribeRetryDelay):
	}

	if err := c.subscribe(); err != nil {
		c.reportError(err)
	}
}

// OnSubscribeSuccess implements centrifuge.SubscribeSuccessHandler.
func (c *centrifugeClientWrapper) OnSubscribeSuccess(s *centrifuge.Subscription, _ centrifuge.SubscribeSuccessEvent) {
	c.logger.
		WithField("channel", s.Channel()).
		Info("subscribed to channel")
}

// Close stops any connection retries and closes the underlying client.
func (c *centrifugeClientWrapper) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	return c.Client.Close()
}

// newSubscription wraps the underlying Centrifuge client methods to create a
// new subscription
func (c *centrifugeClientWrapper) newSubscription(channel string) error {
	var err error
	c.sub, err = c.Client.NewSubscription(channel)
	if err != nil {
		return fmt.Errorf("new subscription: %w", err)
	}
	c.sub.OnPublish(c)
	c.sub.OnSubscribeError(c)
	c.sub.OnSubscribeSuccess(c)

	return nil
}

// subscribe wraps the underlying Centrifuge client methods to subscribe to a
// channel.
func (c *centrifugeClientWrapper) subscribe() error {
	if err := c.sub.Subscribe(); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	return nil
}

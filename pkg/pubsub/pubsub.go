// Package pubsub fans out messages to per-topic subscribers without ever
// blocking the publisher.
package pubsub

import (
	"context"
	"errors"
	"sync"
)

// DefaultBuffer is the per-subscription queue length.
const DefaultBuffer = 16

// ErrClosed is returned by Subscribe after Shutdown.
var ErrClosed = errors.New("pubsub: broker closed")

// Broker delivers messages of type T to subscribers of a topic. A slow
// subscriber loses its oldest queued message rather than stalling Publish.
type Broker[T any] struct {
	subscribers map[string]map[*Subscription[T]]struct{}
	mu          sync.RWMutex
	buffer      int
	shutdown    chan struct{}
	closed      bool
}

// Subscription receives messages for one topic.
type Subscription[T any] struct {
	topic   string
	channel chan T
	broker  *Broker[T]
	cancel  context.CancelFunc

	sendMu sync.Mutex
	closed bool
}

// New creates a broker whose subscriptions queue up to buffer messages.
func New[T any](buffer int) *Broker[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker[T]{
		subscribers: make(map[string]map[*Subscription[T]]struct{}),
		buffer:      buffer,
		shutdown:    make(chan struct{}),
	}
}

// Subscribe registers a subscription to topic. It ends when ctx is done,
// Unsubscribe is called, the topic is closed or the broker shuts down; the
// channel is closed in every case.
func (b *Broker[T]) Subscribe(ctx context.Context, topic string) (*Subscription[T], error) {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		topic:   topic,
		channel: make(chan T, b.buffer),
		broker:  b,
		cancel:  cancel,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		cancel()
		return nil, ErrClosed
	}
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription[T]]struct{})
	}
	b.subscribers[topic][sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
		}
	}()

	return sub, nil
}

// Publish delivers message to every current subscriber of topic and returns
// how many received it.
func (b *Broker[T]) Publish(topic string, message T) int {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return 0
	}
	subs := make([]*Subscription[T], 0, len(b.subscribers[topic]))
	for sub := range b.subscribers[topic] {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if sub.offer(message) {
			delivered++
		}
	}
	return delivered
}

// Subscribers returns the number of subscribers for a topic.
func (b *Broker[T]) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// CloseTopic ends every subscription to topic.
func (b *Broker[T]) CloseTopic(topic string) {
	b.mu.Lock()
	subs := b.subscribers[topic]
	delete(b.subscribers, topic)
	b.mu.Unlock()

	for sub := range subs {
		sub.cancel()
		sub.close()
	}
}

// Shutdown ends all subscriptions. Later Subscribe calls fail with ErrClosed.
func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.shutdown)
	all := b.subscribers
	b.subscribers = make(map[string]map[*Subscription[T]]struct{})
	b.mu.Unlock()

	for _, subs := range all {
		for sub := range subs {
			sub.cancel()
			sub.close()
		}
	}
}

// C returns the subscription's message channel.
func (s *Subscription[T]) C() <-chan T {
	return s.channel
}

// Topic returns the subscribed topic.
func (s *Subscription[T]) Topic() string {
	return s.topic
}

// Unsubscribe removes the subscription and closes its channel.
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	b := s.broker
	b.mu.Lock()
	if subs := b.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(b.subscribers, s.topic)
		}
	}
	b.mu.Unlock()

	s.close()
}

// offer queues message, evicting the oldest queued message when full.
func (s *Subscription[T]) offer(message T) bool {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		return false
	}
	for {
		select {
		case s.channel <- message:
			return true
		default:
		}
		select {
		case <-s.channel:
		default:
		}
	}
}

// close closes the channel once. Holding sendMu keeps it from racing offer.
func (s *Subscription[T]) close() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.channel)
	}
}

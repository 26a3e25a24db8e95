package practical

import (
	"context"
	"sync"

	"github.com/zhubert/ecehelper/internal/logger"
)

// Generator produces a practical for a topic. backend.Client implements it.
type Generator interface {
	Practical(ctx context.Context, topic string) (Result, error)
}

// Flow holds the single most recent practical result. At most one request is
// in flight at a time; each finished request replaces the previous result.
// Nothing here is persisted.
type Flow struct {
	mu       sync.Mutex
	gen      Generator
	latest   *Result
	inFlight bool
	topic    string
}

// NewFlow creates a flow backed by gen.
func NewFlow(gen Generator) *Flow {
	return &Flow{gen: gen}
}

// Start claims the in-flight slot for topic. It returns the trimmed topic and
// false if the topic is blank or another request is still running. Starting
// clears the previous result.
func (f *Flow) Start(topic string) (string, bool) {
	topic = TrimTopic(topic)

	f.mu.Lock()
	defer f.mu.Unlock()

	if topic == "" || f.inFlight {
		return topic, false
	}
	f.inFlight = true
	f.topic = topic
	f.latest = nil
	return topic, true
}

// Run performs the backend call for a started topic. A failed call yields
// FailedResult; it never returns an error.
func (f *Flow) Run(ctx context.Context, topic string) Result {
	log := logger.WithComponent("practical")

	res, err := f.gen.Practical(ctx, topic)
	if err != nil {
		log.Error("practical request failed", "topic", topic, "error", err)
		return FailedResult(topic)
	}
	if res.Topic == "" {
		res.Topic = topic
	}
	log.Info("practical received", "topic", topic, "status", res.Status)
	return res
}

// Finish records r as the latest result and releases the in-flight slot.
func (f *Flow) Finish(r Result) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = &r
	f.inFlight = false
	f.topic = ""
}

// Generate runs Start, Run and Finish in one call. ok is false when the
// submission was rejected.
func (f *Flow) Generate(ctx context.Context, topic string) (res Result, ok bool) {
	topic, ok = f.Start(topic)
	if !ok {
		return Result{}, false
	}
	res = f.Run(ctx, topic)
	f.Finish(res)
	return res, true
}

// Latest returns the most recent result, if any.
func (f *Flow) Latest() (Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.latest == nil {
		return Result{}, false
	}
	return *f.latest, true
}

// InFlight reports whether a request is running, and for which topic.
func (f *Flow) InFlight() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topic, f.inFlight
}

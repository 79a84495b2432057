package messaging

import (
	"fmt"
)

// Publisher sends raw payloads to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ActorSubject is the subject an actor's session listens on.
func ActorSubject(actorId string) string {
	return fmt.Sprintf("actor-%s", actorId)
}

// NatsPublisher publishes messages to individual actor channels.
type NatsPublisher struct {
	server Publisher
}

// NewNatsPublisher wraps a publisher for per-actor message delivery.
func NewNatsPublisher(server Publisher) *NatsPublisher {
	return &NatsPublisher{server: server}
}

func (p *NatsPublisher) PublishToActor(actorId string, data []byte) error {
	return p.server.Publish(ActorSubject(actorId), data)
}

// PublishToActors sends data to every actor not in exclude and returns the first failure.
func (p *NatsPublisher) PublishToActors(actorIds []string, exclude []string, data []byte) error {
	excludeSet := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excludeSet[id] = true
	}

	var firstErr error
	for _, id := range actorIds {
		if excludeSet[id] {
			continue
		}
		if err := p.PublishToActor(id, data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

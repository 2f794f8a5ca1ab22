package notify

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer is a fire-and-forget kafka publisher. Messages go through a
// buffered inbox so publishing never blocks the sale path; write errors
// are logged in the loop, never surfaced.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer func() {
			_ = p.w.Close()
			close(p.closeCh)
		}()
		for {
			select {
			case <-ctx.Done():
				p.flush()
				return
			case m, ok := <-p.inbox:
				if !ok {
					return
				}
				p.write(m)
			}
		}
	}()
}

// flush writes whatever is still buffered without waiting for more.
func (p *Producer) flush() {
	for {
		select {
		case m, ok := <-p.inbox:
			if !ok {
				return
			}
			p.write(m)
		default:
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		log.Printf("notify: write %s: %v", m.Topic, err)
	}
}

// Publish drops the message if the inbox is full rather than block a
// checkout on a slow broker.
func (p *Producer) Publish(topic string, key, value []byte) {
	m := kafka.Message{Topic: topic, Key: key, Value: value, Time: time.Now()}
	select {
	case p.inbox <- m:
	default:
		log.Printf("notify: inbox full, dropping %s event", topic)
	}
}

// Close stops accepting messages; the loop flushes what is left.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the loop has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }

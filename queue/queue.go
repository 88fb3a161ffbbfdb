package queue

import (
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client wraps one RabbitMQ connection and channel bound to a single queue
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// Publisher is the producing side of the client. Handlers depend on this
// so tests can swap in a fake.
type Publisher interface {
	Publish(message []byte) error
}

func NewClient(url, queue string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ: %v", err)
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		log.Printf("Failed to open RabbitMQ channel: %v", err)
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		log.Printf("Failed to declare queue %s: %v", queue, err)
		return nil, err
	}

	log.Printf("RabbitMQ initialized (queue=%s)", queue)

	return &Client{conn: conn, channel: ch, queue: queue}, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	log.Println("RabbitMQ connection closed")
}

func (c *Client) Publish(message []byte) error {
	err := c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		log.Printf("Failed to publish message to RabbitMQ: %v", err)
	}
	return err
}

// Consume delivers queue messages to handler on a background goroutine.
// Failed messages are requeued.
func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Printf("Failed to start consuming messages: %v", err)
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				log.Printf("Failed to process message: %v", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	log.Printf("Started consuming from queue %s", c.queue)
	return nil
}

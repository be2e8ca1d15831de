// Package queue 负责把邮件消息投递到 RabbitMQ，由 cmd/mail 消费
package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/odontoagenda/agenda/backend/internal/domain"
)

type Publisher struct {
	channel *amqp.Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(ch *amqp.Channel, queue string, timeout time.Duration) *Publisher {
	return &Publisher{
		channel: ch,
		queue:   queue,
		timeout: timeout,
	}
}

// DeclareQueue 声明持久化队列，生产者和消费者都需要调用
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,  // 队列名称
		true,  // 是否持久化
		false, // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
		false, // 是否独占，即是否允许多个消费者访问这个队列
		false, // 是否不等待，设置为 false，即等待 RabbitMQ 确认队列是否创建成功
		nil,   // 额外参数
	)
}

func (p *Publisher) PublishMail(ctx context.Context, msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

package usecase

import "context"

// EventPublisher публикует события об изменении товаров.
type EventPublisher interface {
	Publish(ctx context.Context, event *ProductEvent) error
}

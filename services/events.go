package services

import (
	"errors"

	"github.com/yeremiapane/restaurant-hub/repositories"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// EventPublisher delivers domain events to live screens of a restaurant.
// *kds.Hub satisfies it.
type EventPublisher interface {
	Publish(restaurantID uint, event string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(uint, string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// mapRepoErr turns a missing row into a NotFoundError carrying msg and
// passes every other error through.
func mapRepoErr(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return utils.NewNotFoundError(msg)
	}
	return err
}

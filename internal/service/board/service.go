package board

import (
	"fmt"
	"time"

	"uk.co.dudmesh.board/internal/model"
	"uk.co.dudmesh.board/internal/validation"
)

type Store interface {
	LoadAll() ([]model.Message, error)
	AppendAndSave(message *model.Message) error
}

type Notifier interface {
	Dispatch(text string)
}

type service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func New(store Store, notifier Notifier) *service {
	return &service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) List() ([]model.Message, error) {
	messages, err := s.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	return messages, nil
}

// Create validates and stores a new message, then hands its text to the
// notifier without waiting for the outcome. Validation failures are returned
// as the bare model sentinels.
func (s *service) Create(params *model.CreateMessageParams) (*model.Message, error) {
	text, err := validation.Message(params.Message)
	if err != nil {
		return nil, err
	}

	message := model.NewMessage(text, s.now())
	if err := s.store.AppendAndSave(message); err != nil {
		return nil, fmt.Errorf("saving message: %w", err)
	}

	s.notifier.Dispatch(message.Message)

	return message, nil
}

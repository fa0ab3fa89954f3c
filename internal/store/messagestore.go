package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/samber/lo"
	"uk.co.dudmesh.board/internal/model"
)

// messageStore keeps the whole board as one JSON document. Every write
// rewrites the document; the mutex serializes read-modify-write cycles.
type messageStore struct {
	path string
	mu   sync.Mutex
}

func NewMessageStore(path string) (*messageStore, error) {
	isCreating := false
	_, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, storageError("checking if message store exists", err)
		}
		isCreating = true
	}

	store := &messageStore{path: path}
	if isCreating {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, storageError("creating data directory", err)
		}
		if err := store.save([]model.Message{}); err != nil {
			return nil, fmt.Errorf("initialising message store: %w", err)
		}
	}

	return store, nil
}

func (s *messageStore) Path() string {
	return s.path
}

func (s *messageStore) LoadAll() ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// AppendAndSave adds message to the end of the collection. If message.ID is
// not greater than the last stored id it is bumped to last+1, so ids stay
// strictly increasing even when two messages share a millisecond.
func (s *messageStore) AppendAndSave(message *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load()
	if err != nil {
		return err
	}

	if len(messages) > 0 {
		last := lo.LastOr(messages, model.Message{})
		if message.ID <= last.ID {
			message.ID = last.ID + 1
		}
	}

	return s.save(append(messages, *message))
}

func (s *messageStore) load() ([]model.Message, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, storageError("reading message store", err)
	}

	messages := []model.Message{}
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, storageError("decoding message store", err)
	}
	if messages == nil {
		messages = []model.Message{}
	}

	return messages, nil
}

// save replaces the document atomically; renameio writes a sibling temp file
// and renames it over the target, so a reader never sees a partial write.
func (s *messageStore) save(messages []model.Message) error {
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return storageError("encoding messages", err)
	}

	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return storageError("replacing message store", err)
	}

	return nil
}

func storageError(action string, err error) error {
	return fmt.Errorf("%s: %w: %w", action, model.ErrorStorage, err)
}

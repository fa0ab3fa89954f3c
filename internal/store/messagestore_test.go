package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"uk.co.dudmesh.board/internal/model"
)

func TestNewMessageStore(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "nested", "data", "messages.json")

	store, err := NewMessageStore(path)
	assert.Nil(err)
	assert.Equal(path, store.Path())

	data, err := os.ReadFile(path)
	assert.Nil(err)
	assert.Equal("[]", string(data))

	t.Run("Reopen keeps existing messages", func(t *testing.T) {
		err := store.AppendAndSave(model.NewMessage("kept", timeAt(1)))
		assert.Nil(err)

		reopened, err := NewMessageStore(path)
		assert.Nil(err)
		messages, err := reopened.LoadAll()
		assert.Nil(err)
		assert.Len(messages, 1)
		assert.Equal("kept", messages[0].Message)
	})
}

func TestLoadAllEmpty(t *testing.T) {
	req := require.New(t)
	store, err := NewMessageStore(filepath.Join(t.TempDir(), "messages.json"))
	req.NoError(err)

	messages, err := store.LoadAll()
	req.NoError(err)
	req.NotNil(messages)
	req.Empty(messages)
}

func TestAppendAndSave(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.json")
	store, err := NewMessageStore(path)
	req.NoError(err)

	first := model.NewMessage("first", timeAt(1000))
	second := model.NewMessage("second", timeAt(2000))
	req.NoError(store.AppendAndSave(first))
	req.NoError(store.AppendAndSave(second))

	messages, err := store.LoadAll()
	req.NoError(err)
	req.Equal([]model.Message{*first, *second}, messages)

	data, err := os.ReadFile(path)
	req.NoError(err)
	req.Contains(string(data), "[\n  {\n    \"id\": ")

	entries, err := os.ReadDir(dir)
	req.NoError(err)
	req.Len(entries, 1, "temp files must not be left behind")
}

func TestAppendAndSaveBumpsCollidingIDs(t *testing.T) {
	req := require.New(t)
	store, err := NewMessageStore(filepath.Join(t.TempDir(), "messages.json"))
	req.NoError(err)

	at := timeAt(5000)
	first := model.NewMessage("a", at)
	second := model.NewMessage("b", at)
	earlier := model.NewMessage("c", timeAt(10))

	req.NoError(store.AppendAndSave(first))
	req.NoError(store.AppendAndSave(second))
	req.NoError(store.AppendAndSave(earlier))

	req.Equal(model.MessageID(at.UnixMilli()), first.ID)
	req.Equal(first.ID+1, second.ID)
	req.Equal(second.ID+1, earlier.ID)

	messages, err := store.LoadAll()
	req.NoError(err)
	req.Equal(earlier.ID, messages[2].ID)
}

func TestConcurrentAppendsKeepEveryMessage(t *testing.T) {
	req := require.New(t)
	store, err := NewMessageStore(filepath.Join(t.TempDir(), "messages.json"))
	req.NoError(err)

	const writers = 40
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.AppendAndSave(model.NewMessage(fmt.Sprintf("message %d", i), timeAt(1))))
		}(i)
	}
	wg.Wait()

	messages, err := store.LoadAll()
	req.NoError(err)
	req.Len(messages, writers)
	for i := 1; i < len(messages); i++ {
		req.Greater(messages[i].ID, messages[i-1].ID)
	}
}

func TestReadersNeverSeePartialDocuments(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "messages.json")
	store, err := NewMessageStore(path)
	req.NoError(err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			assert.NoError(t, store.AppendAndSave(model.NewMessage(fmt.Sprintf("message %d with some padding text", i), timeAt(1))))
		}
	}()

	reads := 0
	for finished := false; !finished; reads++ {
		select {
		case <-done:
			finished = true
		default:
		}
		data, err := os.ReadFile(path)
		req.NoError(err)
		req.True(json.Valid(data), "document must always be complete")
	}

	messages, err := store.LoadAll()
	req.NoError(err)
	req.Len(messages, 50)
	req.Greater(reads, 0)
}

func TestStorageErrors(t *testing.T) {
	t.Run("Corrupt document", func(t *testing.T) {
		assert := assert.New(t)
		path := filepath.Join(t.TempDir(), "messages.json")
		assert.Nil(os.WriteFile(path, []byte("{not json"), 0o644))

		store, err := NewMessageStore(path)
		assert.Nil(err)

		_, err = store.LoadAll()
		assert.ErrorIs(err, model.ErrorStorage)

		err = store.AppendAndSave(model.NewMessage("lost", timeAt(1)))
		assert.ErrorIs(err, model.ErrorStorage)

		data, _ := os.ReadFile(path)
		assert.Equal("{not json", string(data))
	})

	t.Run("Unreadable document", func(t *testing.T) {
		assert := assert.New(t)
		path := filepath.Join(t.TempDir(), "messages.json")
		assert.Nil(os.Mkdir(path, 0o755))

		store, err := NewMessageStore(path)
		assert.Nil(err)

		_, err = store.LoadAll()
		assert.ErrorIs(err, model.ErrorStorage)
	})
}

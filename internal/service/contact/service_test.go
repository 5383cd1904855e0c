package contact

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

type messageStore struct {
	mu       sync.Mutex
	nextID   int64
	messages []*model.ContactMessage
}

func (s *messageStore) Create(ctx context.Context, m *model.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m.ID = s.nextID
	copied := *m
	s.messages = append(s.messages, &copied)
	return nil
}

func (s *messageStore) List(ctx context.Context, limit int) ([]*model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.ContactMessage
	for i := len(s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *s.messages[i]
		out = append(out, &copied)
	}
	return out, nil
}

func TestSubmitStoresMessage(t *testing.T) {
	store := &messageStore{}
	svc := NewService(store, zerolog.Nop())

	phone := "9876543210"
	m, err := svc.Submit(context.Background(), &model.ContactRequest{
		Name:    "Asha",
		Email:   "asha@example.com",
		Phone:   &phone,
		Subject: "Home collection timing",
		Message: "Can a sample be collected after 6pm?",
	})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)

	out, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "asha@example.com", out[0].Email)
}

func TestListNewestFirstAndCapped(t *testing.T) {
	store := &messageStore{}
	svc := NewService(store, zerolog.Nop())

	for _, subject := range []string{"first", "second", "third"} {
		_, err := svc.Submit(context.Background(), &model.ContactRequest{
			Name: "Asha", Email: "asha@example.com", Subject: subject, Message: "hello",
		})
		require.NoError(t, err)
	}

	out, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "third", out[0].Subject)
	assert.Equal(t, "second", out[1].Subject)

	// Zero and negative limits fall back to the default cap.
	all, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/mirror"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
)

func TestPollerDeliversImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Course{{ID: "c1", Title: "Go"}})
	}))
	defer srv.Close()

	g, _ := newTestGateway(t, srv.URL)
	p := NewPoller(g, time.Hour, zap.NewNop())

	feed := p.Subscribe(context.Background(), mirror.CollectionCourses)
	defer feed.Close()

	select {
	case update := <-feed.Updates():
		assert.Equal(t, mirror.CollectionCourses, update.Collection)
		assert.Equal(t, SourceRemote, update.Source)
		courses, ok := update.Payload.([]models.Course)
		require.True(t, ok)
		require.Len(t, courses, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no update delivered")
	}
}

func TestPollerReportsLocalSourceWhenRemoteDown(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, mirror.CollectionMessages, []models.ChatMessage{
		{ID: "m1", CourseID: "c1", UserID: "u1", Text: "salom", Timestamp: 100},
	}))

	p := NewPoller(g, time.Hour, zap.NewNop())
	feed := p.SubscribeMessages(ctx, "c1")
	defer feed.Close()

	select {
	case update := <-feed.Updates():
		assert.Equal(t, SourceLocal, update.Source)
		msgs, ok := update.Payload.([]models.ChatMessage)
		require.True(t, ok)
		require.Len(t, msgs, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no update delivered")
	}
}

func TestPollerCloseStopsFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.User{{ID: "u1", Username: "aziza"}})
	}))
	defer srv.Close()

	g, _ := newTestGateway(t, srv.URL)
	p := NewPoller(g, 10*time.Millisecond, zap.NewNop())

	feed := p.Subscribe(context.Background(), mirror.CollectionUsers)
	<-feed.Updates()
	feed.Close()

	_, open := <-feed.Updates()
	assert.False(t, open)
}

package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/mirror"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
)

func newTestStore(t *testing.T) *mirror.Store {
	t.Helper()
	s, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestGateway(t *testing.T, baseURL string) (*Gateway, *mirror.Store) {
	t.Helper()
	store := newTestStore(t)
	g := New(config.SyncConfig{
		BaseURL:   baseURL,
		APIPrefix: "/api",
		Timeout:   500 * time.Millisecond,
	}, store, zap.NewNop())
	return g, store
}

// deadRemote returns a base URL that refuses connections.
func deadRemote(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	return srv.URL
}

func TestReadRefreshesMirrorAndFallsBack(t *testing.T) {
	remote := []models.User{
		{ID: "u1", Username: "aziza", Role: models.RoleUser},
		{ID: "u2", Username: "botir", Role: models.RoleAdmin},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, clientPlatform, r.Header.Get("X-Client-Platform"))
		json.NewEncoder(w).Encode(remote)
	}))
	g, _ := newTestGateway(t, srv.URL)
	ctx := context.Background()

	users, source := g.Users(ctx)
	assert.Equal(t, SourceRemote, source)
	require.Len(t, users, 2)
	assert.True(t, g.RemoteLive())

	// The successful read refreshed the mirror, so the same data survives
	// the remote going away.
	srv.Close()
	users, source = g.Users(ctx)
	assert.Equal(t, SourceLocal, source)
	require.Len(t, users, 2)
	assert.Equal(t, "aziza", users[0].Username)
	assert.False(t, g.RemoteLive())
}

func TestReadFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g, store := newTestGateway(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, mirror.CollectionCourses, []models.Course{{ID: "c1", Title: "Go"}}))

	courses, source := g.Courses(ctx)
	assert.Equal(t, SourceLocal, source)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)
	assert.False(t, g.RemoteLive())
}

func TestMalformedRemotePayloadIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Well-formed JSON, but the record is missing its id: the decoder
		// must fail closed instead of caching garbage.
		w.Write([]byte(`[{"username":"ghost"}]`))
	}))
	defer srv.Close()

	g, store := newTestGateway(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, mirror.CollectionUsers, []models.User{{ID: "u1", Username: "aziza"}}))

	users, source := g.Users(ctx)
	assert.Equal(t, SourceLocal, source)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
	assert.False(t, g.RemoteLive())

	// The mirror slot was not clobbered by the bad payload.
	var kept []models.User
	require.NoError(t, store.Load(ctx, mirror.CollectionUsers, &kept))
	require.Len(t, kept, 1)
}

func TestWriteReachesBothStores(t *testing.T) {
	var received models.Course
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/courses", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	g, store := newTestGateway(t, srv.URL)
	ctx := context.Background()

	course := models.Course{ID: "c1", Title: "Go asoslari", Subject: models.SubjectBackend}
	source := g.SaveCourse(ctx, course)
	assert.Equal(t, SourceRemote, source)
	assert.Equal(t, "c1", received.ID)

	var local []models.Course
	require.NoError(t, store.Load(ctx, mirror.CollectionCourses, &local))
	require.Len(t, local, 1)
}

func TestWriteWhileRemoteDownStillLandsLocally(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()

	source := g.SaveTask(ctx, models.CourseTask{ID: "t1", CourseID: "c1", Title: "FizzBuzz"})
	assert.Equal(t, SourceLocal, source)
	assert.False(t, g.RemoteLive())

	var tasks []models.CourseTask
	require.NoError(t, store.Load(ctx, mirror.CollectionTasks, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
}

func TestWriteRejectedByRemoteStillLandsLocally(t *testing.T) {
	// The remote is reachable but refuses the write; the record must land in
	// the mirror all the same, and the live flag goes false.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g, store := newTestGateway(t, srv.URL)
	ctx := context.Background()

	source := g.SaveCourse(ctx, models.Course{ID: "c1", Title: "Go asoslari", Subject: models.SubjectBackend})
	assert.Equal(t, SourceLocal, source)
	assert.False(t, g.RemoteLive())

	var local []models.Course
	require.NoError(t, store.Load(ctx, mirror.CollectionCourses, &local))
	require.Len(t, local, 1)
	assert.Equal(t, "c1", local[0].ID)
}

func TestSaveThenOverrideKeepsOneRecord(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()

	g.SaveResult(ctx, models.TaskResult{ID: "r1", TaskID: "t1", UserID: "u1", Grade: 40, Status: models.ResultStatusPending})
	g.UpdateResultGrade(ctx, "r1", 95)

	results, source := g.Results(ctx)
	assert.Equal(t, SourceLocal, source)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].AdminGrade)
	assert.Equal(t, 95, *results[0].AdminGrade)
	assert.Equal(t, models.ResultStatusReviewed, results[0].Status)

	var mirrored []models.TaskResult
	require.NoError(t, store.Load(ctx, mirror.CollectionResults, &mirrored))
	require.Len(t, mirrored, 1)
}

func TestRegisterUserIdempotentLocally(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()

	user := models.User{ID: "u1", Username: "aziza", Password: "sirli", Role: models.RoleUser}
	g.RegisterUser(ctx, user)
	g.RegisterUser(ctx, user)

	var users []models.User
	require.NoError(t, store.Load(ctx, mirror.CollectionUsers, &users))
	require.Len(t, users, 1)
}

func TestSaveResultPrependsLocally(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()

	g.SaveResult(ctx, models.TaskResult{ID: "r1", TaskID: "t1", UserID: "u1"})
	g.SaveResult(ctx, models.TaskResult{ID: "r2", TaskID: "t1", UserID: "u2"})

	var results []models.TaskResult
	require.NoError(t, store.Load(ctx, mirror.CollectionResults, &results))
	require.Len(t, results, 2)
	assert.Equal(t, "r2", results[0].ID)
}

func TestUpdateResultGradeOverridesLocally(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, mirror.CollectionResults, []models.TaskResult{
		{ID: "r1", TaskID: "t1", UserID: "u1", Grade: 40, Status: models.ResultStatusPending},
	}))

	g.UpdateResultGrade(ctx, "r1", 85)

	var results []models.TaskResult
	require.NoError(t, store.Load(ctx, mirror.CollectionResults, &results))
	require.Len(t, results, 1)
	require.NotNil(t, results[0].AdminGrade)
	assert.Equal(t, 85, *results[0].AdminGrade)
	assert.Equal(t, 85, results[0].EffectiveGrade())
	assert.Equal(t, models.ResultStatusReviewed, results[0].Status)
}

func TestApproveRequestGrantsEnrollment(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, mirror.CollectionUsers, []models.User{
		{ID: "u1", Username: "aziza", EnrolledCourses: models.StringList{"c0"}},
	}))
	require.NoError(t, store.Save(ctx, mirror.CollectionRequests, []models.EnrollmentRequest{
		{ID: "req1", UserID: "u1", CourseID: "c1", Status: models.RequestStatusPending},
		{ID: "req2", UserID: "u2", CourseID: "c1", Status: models.RequestStatusPending},
	}))

	g.ApproveRequest(ctx, "req1")

	var requests []models.EnrollmentRequest
	require.NoError(t, store.Load(ctx, mirror.CollectionRequests, &requests))
	require.Len(t, requests, 1)
	assert.Equal(t, "req2", requests[0].ID)

	var users []models.User
	require.NoError(t, store.Load(ctx, mirror.CollectionUsers, &users))
	require.Len(t, users, 1)
	assert.Equal(t, models.StringList{"c0", "c1"}, users[0].EnrolledCourses)
}

func TestRemoveUserFromCourse(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, mirror.CollectionUsers, []models.User{
		{ID: "u1", Username: "aziza", EnrolledCourses: models.StringList{"c1", "c2"}},
	}))

	g.RemoveUserFromCourse(ctx, "u1", "c1")

	var users []models.User
	require.NoError(t, store.Load(ctx, mirror.CollectionUsers, &users))
	assert.Equal(t, models.StringList{"c2"}, users[0].EnrolledCourses)
}

func TestStartTaskTimer(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, mirror.CollectionTasks, []models.CourseTask{
		{ID: "t1", CourseID: "c1", IsClassTask: true},
	}))

	deadline := time.Now().Add(10*time.Minute).UnixMilli()
	g.StartTaskTimer(ctx, "t1", deadline)

	var tasks []models.CourseTask
	require.NoError(t, store.Load(ctx, mirror.CollectionTasks, &tasks))
	assert.Equal(t, deadline, tasks[0].TimerEnd)
}

func TestMessagesFilteredAndMerged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "c1", r.URL.Query().Get("courseId"))
		json.NewEncoder(w).Encode([]models.ChatMessage{
			{ID: "m2", CourseID: "c1", UserID: "u1", Text: "salom", Timestamp: 200},
			{ID: "m1", CourseID: "c1", UserID: "u2", Text: "assalomu alaykum", Timestamp: 100},
		})
	}))
	defer srv.Close()

	g, store := newTestGateway(t, srv.URL)
	ctx := context.Background()
	// A filtered fetch must not clobber another course's history.
	require.NoError(t, store.Save(ctx, mirror.CollectionMessages, []models.ChatMessage{
		{ID: "m0", CourseID: "c2", UserID: "u1", Text: "boshqa kurs", Timestamp: 50},
	}))

	msgs, source := g.Messages(ctx, "c1")
	assert.Equal(t, SourceRemote, source)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID) // oldest first

	var all []models.ChatMessage
	require.NoError(t, store.Load(ctx, mirror.CollectionMessages, &all))
	assert.Len(t, all, 3)

	srv.Close()
	other, source := g.Messages(ctx, "c2")
	assert.Equal(t, SourceLocal, source)
	require.Len(t, other, 1)
	assert.Equal(t, "m0", other[0].ID)
}

func TestSendMessageAppendsLocally(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()

	g.SendMessage(ctx, models.ChatMessage{ID: "m1", CourseID: "c1", UserID: "u1", Text: "savol bormi?", Timestamp: 100})

	var msgs []models.ChatMessage
	require.NoError(t, store.Load(ctx, mirror.CollectionMessages, &msgs))
	require.Len(t, msgs, 1)
}

func TestLoginFromMirrorWhenRemoteDown(t *testing.T) {
	g, store := newTestGateway(t, deadRemote(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, mirror.CollectionUsers, []models.User{
		{ID: "u1", Username: "aziza", Password: "sirli"},
	}))

	user, source := g.Login(ctx, "aziza", "sirli")
	require.NotNil(t, user)
	assert.Equal(t, SourceLocal, source)
	assert.Equal(t, "u1", user.ID)

	restored, _ := g.RestoreSession(ctx)
	require.NotNil(t, restored)
	assert.Equal(t, "u1", restored.ID)

	wrong, _ := g.Login(ctx, "aziza", "notogri")
	assert.Nil(t, wrong)

	g.Logout(ctx)
	restored, _ = g.RestoreSession(ctx)
	assert.Nil(t, restored)
}

func TestHealthyProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	g, _ := newTestGateway(t, srv.URL)

	assert.True(t, g.Healthy(context.Background()))
	assert.True(t, g.RemoteLive())

	srv.Close()
	assert.False(t, g.Healthy(context.Background()))
	assert.False(t, g.RemoteLive())
}

// Package sync implements the client-side data access layer: every read
// tries the remote API first and falls back to the local mirror, every
// write goes to both stores unconditionally. Callers never see transport
// errors; each operation resolves to a value tagged with its source.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/mirror"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
)

// Source tags where an operation's payload came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

const clientPlatform = "AI-Ustoz-Web"

// Gateway is the single mutation path for all entity collections.
type Gateway struct {
	client    *http.Client
	baseURL   string
	apiPrefix string
	store     *mirror.Store
	logger    *zap.Logger
	live      atomic.Bool
}

// New builds a gateway over the given mirror store.
func New(cfg config.SyncConfig, store *mirror.Store, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiPrefix: cfg.APIPrefix,
		store:     store,
		logger:    logger,
	}
}

// RemoteLive reports whether the most recent remote attempt succeeded.
func (g *Gateway) RemoteLive() bool {
	return g.live.Load()
}

// Healthy probes the remote health endpoint. It mutates no collection.
func (g *Gateway) Healthy(ctx context.Context) bool {
	_, ok := g.fetch(ctx, http.MethodGet, g.baseURL+"/health", nil)
	return ok
}

// fetch performs one remote attempt. Every outcome is folded into the
// returned ok flag and the live flag; nothing propagates as an error.
func (g *Gateway) fetch(ctx context.Context, method, url string, body interface{}) ([]byte, bool) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			g.logger.Warn("encode request body", zap.String("url", url), zap.Error(err))
			g.live.Store(false)
			return nil, false
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		g.live.Store(false)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Platform", clientPlatform)
	req.Header.Set("X-Request-Timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("remote unreachable", zap.String("url", url), zap.Error(err))
		g.live.Store(false)
		return nil, false
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Debug("remote attempt failed",
			zap.String("url", url), zap.Int("status", resp.StatusCode), zap.Error(err))
		g.live.Store(false)
		return nil, false
	}

	g.live.Store(true)
	return raw, true
}

func (g *Gateway) collectionURL(path string) string {
	return g.baseURL + g.apiPrefix + path
}

// validated is satisfied by every entity record.
type validated interface {
	Validate() error
}

// decodeRecords parses a remote collection payload, failing closed when the
// body is not an array of well-formed records.
func decodeRecords[T validated](raw []byte) ([]T, error) {
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("reject malformed record: %w", err)
		}
	}
	return records, nil
}

// readCollection is the uniform read contract: remote first (refreshing the
// mirror slot on success), local fallback on any failure. The filter, when
// present, applies identically to both paths.
func readCollection[T validated](ctx context.Context, g *Gateway, path, collection string, filter func(T) bool) ([]T, Source) {
	raw, ok := g.fetch(ctx, http.MethodGet, g.collectionURL(path), nil)
	if ok {
		records, err := decodeRecords[T](raw)
		if err == nil {
			if filter == nil {
				g.saveLocal(ctx, collection, records)
			} else {
				mergeLocal(ctx, g, collection, records)
			}
			return applyFilter(records, filter), SourceRemote
		}
		// A malformed body counts as a failed remote attempt.
		g.logger.Warn("remote payload rejected", zap.String("collection", collection), zap.Error(err))
		g.live.Store(false)
	}

	var local []T
	if err := g.store.Load(ctx, collection, &local); err != nil {
		g.logger.Warn("mirror read failed", zap.String("collection", collection), zap.Error(err))
		return []T{}, SourceLocal
	}
	return applyFilter(local, filter), SourceLocal
}

func applyFilter[T any](records []T, filter func(T) bool) []T {
	if filter == nil {
		if records == nil {
			return []T{}
		}
		return records
	}
	filtered := make([]T, 0, len(records))
	for _, rec := range records {
		if filter(rec) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func (g *Gateway) saveLocal(ctx context.Context, collection string, value interface{}) {
	if err := g.store.Save(ctx, collection, value); err != nil {
		g.logger.Warn("mirror write failed", zap.String("collection", collection), zap.Error(err))
	}
}

// mergeLocal upserts a filtered remote page into the full mirror slot by id,
// so a per-course fetch never clobbers the rest of the collection.
func mergeLocal[T validated](ctx context.Context, g *Gateway, collection string, incoming []T) {
	var existing []T
	if err := g.store.Load(ctx, collection, &existing); err != nil {
		g.logger.Warn("mirror read failed", zap.String("collection", collection), zap.Error(err))
		return
	}
	index := make(map[string]int, len(existing))
	for i, rec := range existing {
		index[recordID(rec)] = i
	}
	for _, rec := range incoming {
		if i, ok := index[recordID(rec)]; ok {
			existing[i] = rec
		} else {
			existing = append(existing, rec)
		}
	}
	g.saveLocal(ctx, collection, existing)
}

func recordID(rec interface{}) string {
	switch v := rec.(type) {
	case models.User:
		return v.ID
	case models.Course:
		return v.ID
	case models.CourseTask:
		return v.ID
	case models.TaskResult:
		return v.ID
	case models.EnrollmentRequest:
		return v.ID
	case models.ChatMessage:
		return v.ID
	default:
		return ""
	}
}

// --- READ OPERATIONS ---

// Users lists every account.
func (g *Gateway) Users(ctx context.Context) ([]models.User, Source) {
	return readCollection[models.User](ctx, g, "/users", mirror.CollectionUsers, nil)
}

// Courses lists every course.
func (g *Gateway) Courses(ctx context.Context) ([]models.Course, Source) {
	return readCollection[models.Course](ctx, g, "/courses", mirror.CollectionCourses, nil)
}

// Tasks lists every course task.
func (g *Gateway) Tasks(ctx context.Context) ([]models.CourseTask, Source) {
	return readCollection[models.CourseTask](ctx, g, "/tasks", mirror.CollectionTasks, nil)
}

// Results lists every task result.
func (g *Gateway) Results(ctx context.Context) ([]models.TaskResult, Source) {
	return readCollection[models.TaskResult](ctx, g, "/results", mirror.CollectionResults, nil)
}

// Requests lists every enrollment request.
func (g *Gateway) Requests(ctx context.Context) ([]models.EnrollmentRequest, Source) {
	return readCollection[models.EnrollmentRequest](ctx, g, "/requests", mirror.CollectionRequests, nil)
}

// Messages lists the chat history of one course, oldest first.
func (g *Gateway) Messages(ctx context.Context, courseID string) ([]models.ChatMessage, Source) {
	msgs, source := readCollection[models.ChatMessage](ctx, g, "/messages?courseId="+courseID, mirror.CollectionMessages,
		func(m models.ChatMessage) bool { return m.CourseID == courseID })
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp < msgs[j].Timestamp })
	return msgs, source
}

// --- WRITE OPERATIONS ---
//
// Writes are unconditional dual writes: the remote attempt decides only the
// returned source, never whether the mirror is updated. There is no retry
// and no replay of writes made while the remote was down.

// SaveCourse creates a course.
func (g *Gateway) SaveCourse(ctx context.Context, course models.Course) Source {
	_, ok := g.fetch(ctx, http.MethodPost, g.collectionURL("/courses"), course)
	appendLocal(ctx, g, mirror.CollectionCourses, course)
	return writeSource(ok)
}

// SaveTask creates a course task.
func (g *Gateway) SaveTask(ctx context.Context, task models.CourseTask) Source {
	_, ok := g.fetch(ctx, http.MethodPost, g.collectionURL("/tasks"), task)
	appendLocal(ctx, g, mirror.CollectionTasks, task)
	return writeSource(ok)
}

// StartTaskTimer sets the submission deadline for a class task.
func (g *Gateway) StartTaskTimer(ctx context.Context, taskID string, timerEnd int64) Source {
	_, ok := g.fetch(ctx, http.MethodPatch, g.collectionURL("/tasks/"+taskID+"/timer"),
		map[string]int64{"timerEnd": timerEnd})
	updateLocal(ctx, g, mirror.CollectionTasks,
		func(t models.CourseTask) bool { return t.ID == taskID },
		func(t models.CourseTask) models.CourseTask { t.TimerEnd = timerEnd; return t })
	return writeSource(ok)
}

// SaveResult stores a graded submission, newest first in the mirror.
func (g *Gateway) SaveResult(ctx context.Context, result models.TaskResult) Source {
	_, ok := g.fetch(ctx, http.MethodPost, g.collectionURL("/results"), result)
	var results []models.TaskResult
	if err := g.store.Load(ctx, mirror.CollectionResults, &results); err != nil {
		g.logger.Warn("mirror read failed", zap.String("collection", mirror.CollectionResults), zap.Error(err))
	}
	g.saveLocal(ctx, mirror.CollectionResults, append([]models.TaskResult{result}, results...))
	return writeSource(ok)
}

// UpdateResultGrade applies an admin override to a stored result.
func (g *Gateway) UpdateResultGrade(ctx context.Context, resultID string, adminGrade int) Source {
	_, ok := g.fetch(ctx, http.MethodPatch, g.collectionURL("/results/"+resultID),
		map[string]interface{}{"adminGrade": adminGrade, "status": models.ResultStatusReviewed})
	updateLocal(ctx, g, mirror.CollectionResults,
		func(r models.TaskResult) bool { return r.ID == resultID },
		func(r models.TaskResult) models.TaskResult {
			grade := adminGrade
			r.AdminGrade = &grade
			r.Status = models.ResultStatusReviewed
			return r
		})
	return writeSource(ok)
}

// SaveRequest files an enrollment request.
func (g *Gateway) SaveRequest(ctx context.Context, request models.EnrollmentRequest) Source {
	_, ok := g.fetch(ctx, http.MethodPost, g.collectionURL("/requests"), request)
	appendLocal(ctx, g, mirror.CollectionRequests, request)
	return writeSource(ok)
}

// ApproveRequest grants an enrollment request: the request is removed from
// both stores and the course id is appended to the user's enrollments.
func (g *Gateway) ApproveRequest(ctx context.Context, requestID string) Source {
	_, ok := g.fetch(ctx, http.MethodPost, g.collectionURL("/requests/"+requestID+"/approve"), nil)

	var requests []models.EnrollmentRequest
	if err := g.store.Load(ctx, mirror.CollectionRequests, &requests); err != nil {
		g.logger.Warn("mirror read failed", zap.String("collection", mirror.CollectionRequests), zap.Error(err))
		return writeSource(ok)
	}
	var approved *models.EnrollmentRequest
	remaining := make([]models.EnrollmentRequest, 0, len(requests))
	for _, req := range requests {
		if req.ID == requestID {
			granted := req
			approved = &granted
			continue
		}
		remaining = append(remaining, req)
	}
	g.saveLocal(ctx, mirror.CollectionRequests, remaining)

	if approved != nil {
		updateLocal(ctx, g, mirror.CollectionUsers,
			func(u models.User) bool { return u.ID == approved.UserID },
			func(u models.User) models.User {
				u.EnrolledCourses = append(u.EnrolledCourses, approved.CourseID)
				return u
			})
	}
	return writeSource(ok)
}

// UpdateUser replaces a user's profile fields.
func (g *Gateway) UpdateUser(ctx context.Context, user models.User) Source {
	_, ok := g.fetch(ctx, http.MethodPut, g.collectionURL("/users/"+user.ID), user)
	updateLocal(ctx, g, mirror.CollectionUsers,
		func(u models.User) bool { return u.ID == user.ID },
		func(models.User) models.User { return user })
	return writeSource(ok)
}

// RegisterUser creates an account. The mirror write is idempotent on
// username so a repeated registration never duplicates the local record.
func (g *Gateway) RegisterUser(ctx context.Context, user models.User) Source {
	_, ok := g.fetch(ctx, http.MethodPost, g.collectionURL("/register_user"), user)

	var users []models.User
	if err := g.store.Load(ctx, mirror.CollectionUsers, &users); err != nil {
		g.logger.Warn("mirror read failed", zap.String("collection", mirror.CollectionUsers), zap.Error(err))
		return writeSource(ok)
	}
	for _, u := range users {
		if u.Username == user.Username {
			return writeSource(ok)
		}
	}
	g.saveLocal(ctx, mirror.CollectionUsers, append(users, user))
	return writeSource(ok)
}

// RemoveUserFromCourse unenrolls a user from a course.
func (g *Gateway) RemoveUserFromCourse(ctx context.Context, userID, courseID string) Source {
	_, ok := g.fetch(ctx, http.MethodDelete, g.collectionURL("/users/"+userID+"/courses/"+courseID), nil)
	updateLocal(ctx, g, mirror.CollectionUsers,
		func(u models.User) bool { return u.ID == userID },
		func(u models.User) models.User {
			kept := make(models.StringList, 0, len(u.EnrolledCourses))
			for _, c := range u.EnrolledCourses {
				if c != courseID {
					kept = append(kept, c)
				}
			}
			u.EnrolledCourses = kept
			return u
		})
	return writeSource(ok)
}

// SendMessage posts a chat message.
func (g *Gateway) SendMessage(ctx context.Context, message models.ChatMessage) Source {
	_, ok := g.fetch(ctx, http.MethodPost, g.collectionURL("/messages"), message)
	appendLocal(ctx, g, mirror.CollectionMessages, message)
	return writeSource(ok)
}

// --- SESSION ---

// Login matches credentials against the user collection and persists the
// session on success. Works from the mirror alone when the remote is down.
func (g *Gateway) Login(ctx context.Context, username, password string) (*models.User, Source) {
	users, source := g.Users(ctx)
	for i := range users {
		if strings.EqualFold(users[i].Username, username) && users[i].Password == password {
			if err := g.store.SetSession(ctx, users[i].ID); err != nil {
				g.logger.Warn("persist session failed", zap.Error(err))
			}
			return &users[i], source
		}
	}
	return nil, source
}

// RestoreSession returns the user from the last persisted login, if any.
func (g *Gateway) RestoreSession(ctx context.Context) (*models.User, Source) {
	userID, err := g.store.Session(ctx)
	if err != nil || userID == "" {
		return nil, SourceLocal
	}
	users, source := g.Users(ctx)
	for i := range users {
		if users[i].ID == userID {
			return &users[i], source
		}
	}
	// Stale session: the account no longer exists anywhere.
	if err := g.store.ClearSession(ctx); err != nil {
		g.logger.Warn("clear session failed", zap.Error(err))
	}
	return nil, source
}

// Logout drops the persisted session.
func (g *Gateway) Logout(ctx context.Context) {
	if err := g.store.ClearSession(ctx); err != nil {
		g.logger.Warn("clear session failed", zap.Error(err))
	}
}

// --- MIRROR HELPERS ---

func appendLocal[T any](ctx context.Context, g *Gateway, collection string, rec T) {
	var records []T
	if err := g.store.Load(ctx, collection, &records); err != nil {
		g.logger.Warn("mirror read failed", zap.String("collection", collection), zap.Error(err))
	}
	g.saveLocal(ctx, collection, append(records, rec))
}

func updateLocal[T any](ctx context.Context, g *Gateway, collection string, match func(T) bool, apply func(T) T) {
	var records []T
	if err := g.store.Load(ctx, collection, &records); err != nil {
		g.logger.Warn("mirror read failed", zap.String("collection", collection), zap.Error(err))
		return
	}
	for i, rec := range records {
		if match(rec) {
			records[i] = apply(rec)
		}
	}
	g.saveLocal(ctx, collection, records)
}

func writeSource(remoteOK bool) Source {
	if remoteOK {
		return SourceRemote
	}
	return SourceLocal
}

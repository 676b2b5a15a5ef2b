package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/database"
	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/services/content"
	"github.com/Tanveersultana125/co-teacher-backend/utils/cache"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	store, err := database.OpenSQLite("file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store.DB()
}

func newTeacher(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	u := model.User{Email: email, Name: "Teacher", Role: model.RoleTeacher}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	return u
}

type jsonCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
}

func newJSONCache() *jsonCache { return &jsonCache{items: map[string][]byte{}} }

func (c *jsonCache) Get(context.Context, string) (string, error) { return "", cache.ErrNotFound }
func (c *jsonCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}

func (c *jsonCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.items[key]
	if !ok {
		return cache.ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

func (c *jsonCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = data
	return nil
}

func (c *jsonCache) Delete(context.Context, ...string) error { return nil }
func (c *jsonCache) Exists(context.Context, string) (bool, error) { return false, nil }
func (c *jsonCache) Increment(context.Context, string) (int64, error) { return 0, nil }
func (c *jsonCache) Expire(context.Context, string, time.Duration) error { return nil }
func (c *jsonCache) TTL(context.Context, string) (time.Duration, error) { return 0, nil }

type fakeGenerator struct {
	lessonReqs []content.LessonPlanRequest
	plan       content.Document
	slides     []content.Document
}

func (f *fakeGenerator) LessonPlan(_ context.Context, req content.LessonPlanRequest) content.Document {
	f.lessonReqs = append(f.lessonReqs, req)
	return f.plan
}

func (f *fakeGenerator) Presentation(context.Context, content.PresentationRequest) []content.Document {
	return f.slides
}

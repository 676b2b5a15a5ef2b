package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/services/content"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrLessonNotFound is returned for missing lessons and lessons owned by
	// another teacher alike.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrMissingLessonContext is returned when generation is requested
	// without a resolvable subject and topic.
	ErrMissingLessonContext = errors.New("invalid subject or topic context")
)

const (
	defaultLessonLimit    = 50
	defaultLessonDuration = 45
)

// LessonGenerator is the part of content.Generator lessons depend on.
type LessonGenerator interface {
	LessonPlan(ctx context.Context, req content.LessonPlanRequest) content.Document
	Presentation(ctx context.Context, req content.PresentationRequest) []content.Document
}

// LessonService stores lesson plans and presentations per teacher.
type LessonService struct {
	db         *gorm.DB
	curriculum *CurriculumService
	generator  LessonGenerator
	log        *logger.Logger
}

// NewLessonService creates a new lesson service
func NewLessonService(db *gorm.DB, curriculum *CurriculumService, generator LessonGenerator, log *logger.Logger) *LessonService {
	if log == nil {
		log = logger.Nop()
	}
	return &LessonService{db: db, curriculum: curriculum, generator: generator, log: log}
}

// CreateLessonInput is the body of a lesson create request. Board, Grade,
// Subject and Topic are free text and resolved to taxonomy rows.
type CreateLessonInput struct {
	Title       string      `json:"title" validate:"max=255"`
	SubjectID   *uint       `json:"subjectId"`
	TopicID     *uint       `json:"topicId"`
	Board       string      `json:"curriculum"`
	Grade       string      `json:"grade"`
	Subject     string      `json:"subject"`
	Topic       string      `json:"topic"`
	Objective   interface{} `json:"objective"`
	Duration    string      `json:"duration"`
	Activities  interface{} `json:"activities"`
	Homework    string      `json:"homework"`
	Resources   interface{} `json:"resources"`
	AIAssist    bool        `json:"aiAssist"`
	PDFText     string      `json:"pdfText"`
	UnitDetails string      `json:"unitDetails"`
	NumSessions string      `json:"numSessions"`
}

// Create stores a lesson for teacherID, generating its content when AI
// assist is requested or a board and grade are given.
func (s *LessonService) Create(ctx context.Context, teacherID uint, in CreateLessonInput) (*model.LessonPlan, error) {
	subjectID, topicID := in.SubjectID, in.TopicID

	if in.Board != "" && in.Grade != "" && in.Subject != "" && in.Topic != "" {
		ids, err := s.curriculum.Resolve(ctx, in.Board, in.Grade, in.Subject, in.Topic)
		if err != nil {
			return nil, err
		}
		subjectID, topicID = &ids.SubjectID, &ids.TopicID
	}

	body := datatypes.JSONMap{
		"objective":  in.Objective,
		"activities": in.Activities,
		"homework":   in.Homework,
		"resources":  in.Resources,
	}

	topicName := in.Topic
	if in.AIAssist || (in.Board != "" && in.Grade != "") {
		subjectName := in.Subject
		if subjectName == "" || topicName == "" {
			sName, tName, err := s.curriculum.Names(ctx, subjectID, topicID)
			if err != nil {
				return nil, fmt.Errorf("failed to load taxonomy names: %w", err)
			}
			if subjectName == "" {
				subjectName = sName
			}
			if topicName == "" {
				topicName = tName
			}
		}
		if subjectName == "" || topicName == "" {
			return nil, ErrMissingLessonContext
		}

		generated := s.generator.LessonPlan(ctx, content.LessonPlanRequest{
			Topic:       topicName,
			Subject:     subjectName,
			Grade:       in.Grade,
			Board:       in.Board,
			Duration:    in.Duration,
			Sessions:    in.NumSessions,
			PDFContext:  in.PDFText,
			UnitDetails: in.UnitDetails,
		})
		body = lessonBody(generated, topicName)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Lesson: " + orGenerated(topicName)
	}

	duration, err := strconv.Atoi(strings.TrimSpace(in.Duration))
	if err != nil || duration <= 0 {
		duration = defaultLessonDuration
	}

	lesson := model.LessonPlan{
		TeacherID: teacherID,
		Title:     title,
		Type:      model.LessonTypeLesson,
		Status:    model.LessonStatusDraft,
		Board:     in.Board,
		Grade:     in.Grade,
		Duration:  duration,
		Content:   body,
		SubjectID: subjectID,
		TopicID:   topicID,
	}
	if ref, ok := body["referenceUrl"].(map[string]interface{}); ok {
		lesson.ResourceURL, _ = ref["url"].(string)
	}

	if err := s.db.WithContext(ctx).Create(&lesson).Error; err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	return &lesson, nil
}

func orGenerated(topic string) string {
	if topic == "" {
		return "Generated"
	}
	return topic
}

// lessonBody copies the generated plan and adds a YouTube search link built
// from its video query.
func lessonBody(generated content.Document, topic string) datatypes.JSONMap {
	body := datatypes.JSONMap{}
	for k, v := range generated {
		body[k] = v
	}

	if list, ok := body["resources"].([]interface{}); ok {
		parts := make([]string, 0, len(list))
		for _, r := range list {
			if str, ok := r.(string); ok {
				parts = append(parts, str)
			}
		}
		body["resources"] = strings.Join(parts, ", ")
	}

	body["referenceUrl"] = map[string]interface{}{
		"title": "Search on YouTube",
		"url":   youtubeSearchURL(topic, body["videoSearchQuery"]),
	}
	return body
}

func youtubeSearchURL(topic string, query interface{}) string {
	q, _ := query.(string)
	q = strings.TrimSpace(q)
	switch {
	case q == "":
		q = topic
	case !strings.Contains(strings.ToLower(q), strings.ToLower(topic)):
		q = topic + " " + q
	}
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(q)
}

// List returns teacherID's lessons, newest first, optionally filtered by type.
func (s *LessonService) List(ctx context.Context, teacherID uint, lessonType string, limit int) ([]model.LessonPlan, error) {
	if limit <= 0 {
		limit = defaultLessonLimit
	}

	query := s.db.WithContext(ctx).Where("teacher_id = ?", teacherID)
	if lessonType != "" {
		query = query.Where("type = ?", lessonType)
	}

	var lessons []model.LessonPlan
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch lessons: %w", err)
	}
	return lessons, nil
}

// Get returns a lesson with its subject and topic. Other teachers can read
// published lessons only.
func (s *LessonService) Get(ctx context.Context, teacherID, id uint) (*model.LessonPlan, error) {
	var lesson model.LessonPlan
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Preload("Topic").
		Where("(teacher_id = ? OR status = ?)", teacherID, model.LessonStatusPublished).
		First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lesson: %w", err)
	}
	return &lesson, nil
}

// UpdateLessonInput holds the editable fields. Nil fields are left alone.
type UpdateLessonInput struct {
	Title    *string                `json:"title" validate:"omitempty,min=1,max=255"`
	Status   *string                `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	Grade    *string                `json:"grade"`
	Duration *int                   `json:"duration" validate:"omitempty,gte=1"`
	Content  map[string]interface{} `json:"content"`
}

// Update changes a lesson owned by teacherID.
func (s *LessonService) Update(ctx context.Context, teacherID, id uint, in UpdateLessonInput) (*model.LessonPlan, error) {
	lesson, err := s.owned(ctx, teacherID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.Grade != nil {
		updates["grade"] = *in.Grade
	}
	if in.Duration != nil {
		updates["duration"] = *in.Duration
	}
	if in.Content != nil {
		updates["content"] = datatypes.JSONMap(in.Content)
	}
	if len(updates) == 0 {
		return lesson, nil
	}

	if err := s.db.WithContext(ctx).Model(lesson).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}
	return s.owned(ctx, teacherID, id)
}

// Delete removes a lesson owned by teacherID.
func (s *LessonService) Delete(ctx context.Context, teacherID, id uint) error {
	lesson, err := s.owned(ctx, teacherID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(lesson).Error; err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	return nil
}

func (s *LessonService) owned(ctx context.Context, teacherID, id uint) (*model.LessonPlan, error) {
	var lesson model.LessonPlan
	err := s.db.WithContext(ctx).Where("teacher_id = ?", teacherID).First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lesson: %w", err)
	}
	return &lesson, nil
}

// PresentationInput is the body of a presentation request.
type PresentationInput struct {
	Topic      string `json:"topic" validate:"required"`
	Grade      string `json:"grade"`
	Curriculum string `json:"curriculum"`
	Subject    string `json:"subject"`
	Slides     int    `json:"slides" validate:"omitempty,gte=1,lte=30"`
}

// CreatePresentation generates slides and saves them as a PRESENTATION
// lesson for teacherID. The slides are returned even if saving fails.
func (s *LessonService) CreatePresentation(ctx context.Context, teacherID uint, in PresentationInput) ([]content.Document, error) {
	var subjectID, topicID *uint
	if in.Curriculum != "" && in.Grade != "" && in.Subject != "" {
		ids, err := s.curriculum.Resolve(ctx, in.Curriculum, in.Grade, in.Subject, in.Topic)
		if err != nil {
			return nil, err
		}
		subjectID, topicID = &ids.SubjectID, &ids.TopicID
	}

	grade := in.Grade
	if grade == "" {
		grade = "10"
	}

	slides := s.generator.Presentation(ctx, content.PresentationRequest{
		Topic:      in.Topic,
		Grade:      grade,
		Curriculum: in.Curriculum,
		Subject:    in.Subject,
		Slides:     in.Slides,
	})

	items := make([]interface{}, len(slides))
	for i, sl := range slides {
		items[i] = sl
	}

	lesson := model.LessonPlan{
		TeacherID: teacherID,
		Title:     in.Topic + " Presentation",
		Type:      model.LessonTypePresentation,
		Status:    model.LessonStatusDraft,
		Board:     in.Curriculum,
		Grade:     grade,
		Content:   datatypes.JSONMap{"slides": items},
		SubjectID: subjectID,
		TopicID:   topicID,
	}
	if err := s.db.WithContext(ctx).Create(&lesson).Error; err != nil {
		s.log.Error("failed to save presentation", "teacher_id", teacherID, "error", err)
	}
	return slides, nil
}

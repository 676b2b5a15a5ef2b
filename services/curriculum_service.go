package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/utils/cache"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"gorm.io/gorm"
)

// ErrIncompleteTaxonomy is returned when board, grade, subject or topic is blank.
var ErrIncompleteTaxonomy = errors.New("board, grade, subject and topic are all required")

const taxonomyCacheTTL = 24 * time.Hour

// TaxonomyIDs identifies a resolved curriculum, subject and topic.
type TaxonomyIDs struct {
	CurriculumID uint `json:"curriculum_id"`
	SubjectID    uint `json:"subject_id"`
	TopicID      uint `json:"topic_id"`
}

// CurriculumService resolves free-text taxonomy names to stored rows.
type CurriculumService struct {
	db    *gorm.DB
	cache cache.Cache
	log   *logger.Logger
}

// NewCurriculumService creates the service. c may be nil.
func NewCurriculumService(db *gorm.DB, c cache.Cache, log *logger.Logger) *CurriculumService {
	if log == nil {
		log = logger.Nop()
	}
	return &CurriculumService{db: db, cache: c, log: log}
}

func taxonomyKey(board, grade, subject, topic string) string {
	return fmt.Sprintf("taxonomy:%s|%s|%s|%s", board, grade, subject, topic)
}

// Resolve finds or creates Curriculum(board, grade), Subject(subject) under
// it and Topic(topic) under that. Repeated calls return the same IDs.
func (s *CurriculumService) Resolve(ctx context.Context, board, grade, subject, topic string) (TaxonomyIDs, error) {
	board, grade = strings.TrimSpace(board), strings.TrimSpace(grade)
	subject, topic = strings.TrimSpace(subject), strings.TrimSpace(topic)
	if board == "" || grade == "" || subject == "" || topic == "" {
		return TaxonomyIDs{}, ErrIncompleteTaxonomy
	}

	key := taxonomyKey(board, grade, subject, topic)
	if s.cache != nil {
		var cached TaxonomyIDs
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil && cached.TopicID != 0 {
			return cached, nil
		} else if err != nil && !errors.Is(err, cache.ErrNotFound) {
			s.log.Debug("taxonomy cache read failed", "error", err)
		}
	}

	var ids TaxonomyIDs
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		curriculum := model.Curriculum{Board: board, Grade: grade}
		if err := tx.Where(curriculum).FirstOrCreate(&curriculum).Error; err != nil {
			return fmt.Errorf("failed to resolve curriculum: %w", err)
		}

		subj := model.Subject{CurriculumID: curriculum.ID, Name: subject}
		if err := tx.Where(subj).FirstOrCreate(&subj).Error; err != nil {
			return fmt.Errorf("failed to resolve subject: %w", err)
		}

		t := model.Topic{SubjectID: subj.ID, Name: topic}
		if err := tx.Where(t).FirstOrCreate(&t).Error; err != nil {
			return fmt.Errorf("failed to resolve topic: %w", err)
		}

		ids = TaxonomyIDs{CurriculumID: curriculum.ID, SubjectID: subj.ID, TopicID: t.ID}
		return nil
	})
	if err != nil {
		return TaxonomyIDs{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, ids, taxonomyCacheTTL); err != nil {
			s.log.Debug("taxonomy cache write failed", "error", err)
		}
	}
	return ids, nil
}

// Names returns the subject and topic names for the given IDs. Missing IDs
// yield empty names.
func (s *CurriculumService) Names(ctx context.Context, subjectID, topicID *uint) (subject, topic string, err error) {
	db := s.db.WithContext(ctx)
	if subjectID != nil {
		var row model.Subject
		if err := db.Select("name").First(&row, *subjectID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", err
		}
		subject = row.Name
	}
	if topicID != nil {
		var row model.Topic
		if err := db.Select("name").First(&row, *topicID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", err
		}
		topic = row.Name
	}
	return subject, topic, nil
}

// ListCurricula returns every curriculum with its subjects and topics.
func (s *CurriculumService) ListCurricula(ctx context.Context) ([]model.Curriculum, error) {
	var out []model.Curriculum
	err := s.db.WithContext(ctx).
		Preload("Subjects", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Preload("Subjects.Topics", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Order("board, grade").
		Find(&out).Error
	return out, err
}

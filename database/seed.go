package database

import (
	"errors"
	"fmt"

	"github.com/Tanveersultana125/co-teacher-backend/model"
	"github.com/Tanveersultana125/co-teacher-backend/utils/auth"
	applog "github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"gorm.io/gorm"
)

// Seeder fills an empty database with a demo teacher and a starter taxonomy.
type Seeder struct {
	db  *gorm.DB
	log *applog.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, log *applog.Logger) *Seeder {
	if log == nil {
		log = applog.Nop()
	}
	return &Seeder{db: db, log: log}
}

// DemoTeacher holds the credentials SeedTeacher uses.
type DemoTeacher struct {
	Email    string
	Password string
	Name     string
}

// starterTaxonomy maps board -> grade -> subject -> topics.
var starterTaxonomy = map[string]map[string]map[string][]string{
	"CBSE": {
		"Grade 8": {
			"Science":     {"Cell: Structure and Functions", "Force and Pressure", "Synthetic Fibres and Plastics"},
			"Mathematics": {"Rational Numbers", "Linear Equations in One Variable"},
		},
		"Grade 10": {
			"Science": {"Chemical Reactions and Equations", "Life Processes"},
			"English": {"A Letter to God"},
		},
	},
	"Cambridge": {
		"Grade 9": {
			"Biology": {"Photosynthesis", "Transport in Plants"},
		},
	},
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll(teacher DemoTeacher) error {
	if err := s.SeedTeacher(teacher); err != nil {
		return fmt.Errorf("failed to seed teacher: %w", err)
	}
	if err := s.SeedTaxonomy(); err != nil {
		return fmt.Errorf("failed to seed taxonomy: %w", err)
	}
	s.log.Info("seeding completed")
	return nil
}

// SeedTeacher creates the demo teacher unless the email is taken or no
// credentials were given.
func (s *Seeder) SeedTeacher(t DemoTeacher) error {
	if t.Email == "" || t.Password == "" {
		s.log.Warn("demo teacher credentials not set, skipping")
		return nil
	}

	var existing model.User
	err := s.db.Where("email = ?", t.Email).First(&existing).Error
	if err == nil {
		s.log.Info("demo teacher already exists", "user_id", existing.ID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(t.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	name := t.Name
	if name == "" {
		name = "Demo Teacher"
	}

	return s.db.Create(&model.User{
		Email:        t.Email,
		PasswordHash: hash,
		Name:         name,
		Role:         model.RoleTeacher,
	}).Error
}

// SeedTaxonomy inserts the starter curricula, subjects and topics. Existing
// rows are reused so the seeder can run repeatedly.
func (s *Seeder) SeedTaxonomy() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for board, grades := range starterTaxonomy {
			for grade, subjects := range grades {
				curriculum := model.Curriculum{Board: board, Grade: grade}
				if err := tx.Where(curriculum).FirstOrCreate(&curriculum).Error; err != nil {
					return err
				}
				for subjectName, topics := range subjects {
					subject := model.Subject{CurriculumID: curriculum.ID, Name: subjectName}
					if err := tx.Where(subject).FirstOrCreate(&subject).Error; err != nil {
						return err
					}
					for _, topicName := range topics {
						topic := model.Topic{SubjectID: subject.ID, Name: topicName}
						if err := tx.Where(topic).FirstOrCreate(&topic).Error; err != nil {
							return err
						}
					}
				}
			}
		}
		return nil
	})
}

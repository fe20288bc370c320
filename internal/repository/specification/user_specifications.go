package specification

import "gorm.io/gorm"

// BySubject filters by the identity provider subject id
type BySubject struct {
	SubjectId string
}

func (s BySubject) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subject_id = ?", s.SubjectId)
}

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// EmailContains does a case-insensitive partial match, used by the
// admin user search.
type EmailContains struct {
	Fragment string
}

func (s EmailContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email ILIKE ?", "%"+s.Fragment+"%")
}

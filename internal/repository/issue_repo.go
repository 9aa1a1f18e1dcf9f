package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Janakrish1/Plan2Ship/internal/model"
)

type issueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) Create(issue *model.Issue) error {
	return r.db.Create(issue).Error
}

func (r *issueRepository) List() ([]model.Issue, error) {
	var issues []model.Issue
	err := r.db.Order("created_at DESC").Find(&issues).Error
	return issues, err
}

func (r *issueRepository) Get(id uint) (*model.Issue, error) {
	var issue model.Issue
	err := r.db.First(&issue, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) GetWithArtifacts(id uint) (*model.Issue, error) {
	var issue model.Issue
	err := r.db.Preload("Artifacts.Approvals").Preload("Artifacts").First(&issue, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) Save(issue *model.Issue) error {
	return r.db.Save(issue).Error
}

func (r *issueRepository) Delete(id uint) error {
	return r.db.Delete(&model.Issue{}, id).Error
}

// CountByPrefix counts issues whose key starts with the given project
// prefix; used to assign the next issue key.
func (r *issueRepository) CountByPrefix(prefix string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Issue{}).Where("key LIKE ?", prefix+"%").Count(&count).Error
	return count, err
}

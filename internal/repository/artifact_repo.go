package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Janakrish1/Plan2Ship/internal/model"
)

type artifactRepository struct {
	db *gorm.DB
}

func NewArtifactRepository(db *gorm.DB) ArtifactRepository {
	return &artifactRepository{db: db}
}

func (r *artifactRepository) Create(artifact *model.Artifact) error {
	return r.db.Create(artifact).Error
}

func (r *artifactRepository) Get(id uint) (*model.Artifact, error) {
	var artifact model.Artifact
	err := r.db.Preload("Approvals").First(&artifact, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (r *artifactRepository) GetByIssue(issueID uint) ([]model.Artifact, error) {
	var artifacts []model.Artifact
	err := r.db.Preload("Approvals").Where("issue_id = ?", issueID).Order("id").Find(&artifacts).Error
	return artifacts, err
}

func (r *artifactRepository) Save(artifact *model.Artifact) error {
	return r.db.Save(artifact).Error
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(approval *model.Approval) error {
	return r.db.Create(approval).Error
}

func (r *approvalRepository) Get(id uint) (*model.Approval, error) {
	var approval model.Approval
	err := r.db.First(&approval, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepository) Save(approval *model.Approval) error {
	return r.db.Save(approval).Error
}

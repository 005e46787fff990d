package lookup

import (
	"context"
	"fmt"

	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/repository"
)

// Service 字典表与关联查询
type Service struct {
	lookupRepo      repository.LookupRepository
	associationRepo repository.AssociationRepository
}

// NewService 是 lookup Service 的构造函数。
func NewService(lookupRepo repository.LookupRepository, associationRepo repository.AssociationRepository) *Service {
	return &Service{lookupRepo: lookupRepo, associationRepo: associationRepo}
}

func (s *Service) ListPhases(ctx context.Context) ([]*model.Phase, error) {
	return s.lookupRepo.ListPhases(ctx)
}

func (s *Service) ListStatuses(ctx context.Context) ([]*model.Status, error) {
	return s.lookupRepo.ListStatuses(ctx)
}

func (s *Service) ListFileExtensions(ctx context.Context) ([]*model.FileExtension, error) {
	return s.lookupRepo.ListFileExtensions(ctx)
}

// FindAssociations 查询一次测量的关联参数
func (s *Service) FindAssociations(ctx context.Context, mc model.MeasurementContext) ([]*model.Association, error) {
	associations, err := s.associationRepo.FindByMeasurement(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("查询关联失败: %w", err)
	}
	return associations, nil
}

package repository

import (
	"context"

	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
)

// MediaFileDetailRepository 负责媒体文件明细的组合查询
type MediaFileDetailRepository interface {
	// FindMutant 查询指定基因型的媒体文件明细，按动物名称排序
	FindMutant(ctx context.Context, q model.DetailQuery) ([]*model.MediaFileDetail, error)
	// FindBaseline 查询同一中心/品系/参数下属于 metadataGroup 的野生型明细
	FindBaseline(ctx context.Context, q model.DetailQuery, metadataGroup string) ([]*model.MediaFileDetail, error)
}

// ProcedureMetadataGroupRepository 查询某个上下文中出现过的元数据组
type ProcedureMetadataGroupRepository interface {
	FindByContext(ctx context.Context, centreID, genotypeID, strainID int64, parameterKey string) ([]*model.ProcedureMetadataGroup, error)
}

// MetadataGroupRepository 元数据组取值
type MetadataGroupRepository interface {
	// FindByMetadataGroup 不存在时返回 constant.ErrNotFound
	FindByMetadataGroup(ctx context.Context, metadataGroup string) (*model.MetadataGroupToValues, error)
}

// PreprocessedRepository 胚胎数据预处理状态
type PreprocessedRepository interface {
	// FindStatusByImageName 不存在时返回 constant.ErrNotFound
	FindStatusByImageName(ctx context.Context, imageName string) (int, error)
}

// MediaFileRepository media_file 表的增删改查
type MediaFileRepository interface {
	FindByID(ctx context.Context, id int64) (*model.MediaFile, error)
	List(ctx context.Context, page *model.PaginationInput) ([]*model.MediaFile, int, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, params *model.CreateMediaFileParams) (*model.MediaFile, error)
	Update(ctx context.Context, id int64, params *model.UpdateMediaFileParams) (*model.MediaFile, error)
	Delete(ctx context.Context, id int64) error
}

// LookupRepository 阶段、状态、扩展名等字典表
type LookupRepository interface {
	ListPhases(ctx context.Context) ([]*model.Phase, error)
	ListStatuses(ctx context.Context) ([]*model.Status, error)
	ListFileExtensions(ctx context.Context) ([]*model.FileExtension, error)
}

// AssociationRepository 测量与其它参数的关联
type AssociationRepository interface {
	FindByMeasurement(ctx context.Context, mc model.MeasurementContext) ([]*model.Association, error)
}

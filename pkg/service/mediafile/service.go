package mediafile

import (
	"context"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/metrics"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/repository"
)

// Service 组装媒体文件查询结果，并提供 media_file 的只读访问
type Service struct {
	detailRepo       repository.MediaFileDetailRepository
	procedureMGRepo  repository.ProcedureMetadataGroupRepository
	preprocessedRepo repository.PreprocessedRepository
	mediaFileRepo    repository.MediaFileRepository
	resolve          MetadataGroupResolver
}

// NewService 创建媒体文件服务。resolve 为 nil 时直接使用 mgRepo 查询元数据组。
func NewService(
	detailRepo repository.MediaFileDetailRepository,
	procedureMGRepo repository.ProcedureMetadataGroupRepository,
	mgRepo repository.MetadataGroupRepository,
	preprocessedRepo repository.PreprocessedRepository,
	mediaFileRepo repository.MediaFileRepository,
	resolve MetadataGroupResolver,
) *Service {
	if resolve == nil {
		resolve = RepositoryResolver(mgRepo)
	}
	return &Service{
		detailRepo:       detailRepo,
		procedureMGRepo:  procedureMGRepo,
		preprocessedRepo: preprocessedRepo,
		mediaFileRepo:    mediaFileRepo,
		resolve:          resolve,
	}
}

// FindMediaFiles 按过滤条件返回媒体文件明细。
// 参数不全或上下文中没有任何元数据组时返回空的失败信封，查询失败只记录日志。
func (s *Service) FindMediaFiles(ctx context.Context, filter *model.MediaFileFilter) *model.MediaFileDetailsPack {
	pack := model.NewEmptyPack()
	if filter == nil || !filter.HasRequired() {
		return pack
	}
	log := logging.Ctx(ctx)
	q := filter.ToDetailQuery()

	contextGroups, err := s.procedureMGRepo.FindByContext(ctx, q.CentreID, q.GenotypeID, q.StrainID, q.ParameterKey)
	if err != nil {
		log.Error().Err(err).Msg("查询流程元数据组失败")
		return pack
	}
	if len(contextGroups) == 0 {
		log.Debug().Int64("cid", q.CentreID).Int64("gid", q.GenotypeID).Int64("sid", q.StrainID).
			Str("qeid", q.ParameterKey).Msg("该上下文没有任何测量")
		return pack
	}

	details, err := s.detailRepo.FindMutant(ctx, q)
	metrics.RecordDetailQuery("mutant", err)
	if err != nil {
		log.Error().Err(err).Msg("查询突变体明细失败")
		details = nil
	}

	if filter.WantsBaseline() {
		details = append(details, s.findBaseline(ctx, q, contextGroups)...)
	}

	groups := IndexMetadataGroups(ctx, details, s.resolve)

	if constant.IsEmbryoParameter(q.ParameterKey) {
		applyEmbryoStatus(ctx, details, s.preprocessedRepo)
	}

	pack.SetDataSet(details, groups)
	metrics.DetailRows.Observe(float64(pack.Total))
	return pack
}

// findBaseline 对上下文中每个不同的元数据组查询一次野生型数据
func (s *Service) findBaseline(ctx context.Context, q model.DetailQuery, contextGroups []*model.ProcedureMetadataGroup) []*model.MediaFileDetail {
	log := logging.Ctx(ctx)
	var baseline []*model.MediaFileDetail
	queried := make(map[string]struct{}, len(contextGroups))

	for _, pmg := range contextGroups {
		if _, ok := queried[pmg.MetadataGroup]; ok {
			continue
		}
		queried[pmg.MetadataGroup] = struct{}{}

		rows, err := s.detailRepo.FindBaseline(ctx, q, pmg.MetadataGroup)
		metrics.RecordDetailQuery("baseline", err)
		if err != nil {
			log.Error().Err(err).Str("metadata_group", pmg.MetadataGroup).Msg("查询基线明细失败")
			continue
		}
		baseline = append(baseline, rows...)
	}
	return baseline
}

// GetMediaFile 获取单个媒体文件
func (s *Service) GetMediaFile(ctx context.Context, id int64) (*model.MediaFile, error) {
	return s.mediaFileRepo.FindByID(ctx, id)
}

// ListMediaFiles 分页列出媒体文件
func (s *Service) ListMediaFiles(ctx context.Context, page *model.PaginationInput) (*model.PageResult[*model.MediaFile], error) {
	files, total, err := s.mediaFileRepo.List(ctx, page)
	if err != nil {
		return nil, err
	}
	return &model.PageResult[*model.MediaFile]{
		List:     files,
		Total:    total,
		Page:     page.GetPage(),
		PageSize: page.GetPageSize(),
	}, nil
}

// CountMediaFiles 统计媒体文件总数
func (s *Service) CountMediaFiles(ctx context.Context) (int, error) {
	return s.mediaFileRepo.Count(ctx)
}

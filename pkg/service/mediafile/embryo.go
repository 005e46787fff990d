package mediafile

import (
	"context"
	"errors"
	"strconv"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/repository"
)

// applyEmbryoStatus 胚胎参数的媒体文件由单独的预处理流程处理：
// 阶段统一为 EmbryoPhase，状态取 preprocessed 表中以媒体文件 ID 命名的记录。
func applyEmbryoStatus(ctx context.Context, details []*model.MediaFileDetail, repo repository.PreprocessedRepository) {
	log := logging.Ctx(ctx)
	for _, d := range details {
		phase := constant.EmbryoPhase
		status := constant.EmbryoFailStatus
		if d.ID != nil {
			s, err := repo.FindStatusByImageName(ctx, strconv.FormatInt(*d.ID, 10))
			switch {
			case err == nil:
				status = s
			case errors.Is(err, constant.ErrNotFound):
				log.Debug().Int64("media_file_id", *d.ID).Msg("没有胚胎预处理记录")
			default:
				log.Warn().Err(err).Int64("media_file_id", *d.ID).Msg("查询胚胎预处理状态失败")
			}
		}
		d.Phase = &phase
		d.Status = &status
	}
}

package mediafile

import (
	"context"
	"errors"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/metrics"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
)

// MetadataGroupResolver 按校验和查找元数据组。
// 找不到时返回 constant.ErrNotFound，其它错误视为查找失败。
type MetadataGroupResolver func(ctx context.Context, metadataGroup string) (*model.MetadataGroupToValues, error)

// IndexMetadataGroups 对明细中的元数据组去重，并把每一行的 MetadataGroupIndex
// 替换为对应元数据组的 ID；无法解析的行得到 -1。
// 返回的元数据组按首次出现的顺序排列，无法解析的校验和不会被记住，再次出现时重新查找。
func IndexMetadataGroups(ctx context.Context, details []*model.MediaFileDetail, resolve MetadataGroupResolver) []*model.MetadataGroupToValues {
	groups := make([]*model.MetadataGroupToValues, 0)
	seen := make(map[string]*model.MetadataGroupToValues)
	log := logging.Ctx(ctx)

	for _, d := range details {
		if g, ok := seen[d.MetadataGroup]; ok {
			d.MetadataGroupIndex = g.ID
			continue
		}

		g, err := resolve(ctx, d.MetadataGroup)
		switch {
		case err == nil && g != nil:
			seen[d.MetadataGroup] = g
			groups = append(groups, g)
			d.MetadataGroupIndex = g.ID
		case err == nil || errors.Is(err, constant.ErrNotFound):
			log.Debug().Str("metadata_group", d.MetadataGroup).Msg("元数据组不存在")
			metrics.RecordMetadataGroupLookup(metrics.LookupNotFound)
			d.MetadataGroupIndex = constant.UnresolvedMetadataGroup
		default:
			log.Warn().Err(err).Str("metadata_group", d.MetadataGroup).Msg("查找元数据组失败")
			metrics.RecordMetadataGroupLookup(metrics.LookupError)
			d.MetadataGroupIndex = constant.UnresolvedMetadataGroup
		}
	}
	return groups
}

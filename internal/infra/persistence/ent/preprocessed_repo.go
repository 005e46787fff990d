package ent

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/repository"
)

type preprocessedRepository struct {
	store
}

// NewPreprocessedRepository 创建胚胎预处理状态仓库
func NewPreprocessedRepository(drv dialect.Driver, catalogs Catalogs) repository.PreprocessedRepository {
	return &preprocessedRepository{store: newStore(drv, catalogs)}
}

func (r *preprocessedRepository) FindStatusByImageName(ctx context.Context, imageName string) (int, error) {
	t := r.table(r.catalogs.Embryo, "preprocessed", "")
	selector := r.builder().Select(t.C("status_id")).From(t).
		Where(sql.EQ(t.C("image_name"), imageName)).
		OrderBy(sql.Desc(t.C("id"))).
		Limit(1)

	var statuses []int
	if err := r.scanAll(ctx, selector, &statuses); err != nil {
		return 0, fmt.Errorf("查询预处理状态失败 (image: %s): %w", imageName, err)
	}
	if len(statuses) == 0 {
		return 0, constant.ErrNotFound
	}
	return statuses[0], nil
}

package ent

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/repository"
)

type metadataGroupRepository struct {
	store
}

// NewMetadataGroupRepository 创建元数据组仓库
func NewMetadataGroupRepository(drv dialect.Driver, catalogs Catalogs) repository.MetadataGroupRepository {
	return &metadataGroupRepository{store: newStore(drv, catalogs)}
}

func (r *metadataGroupRepository) FindByMetadataGroup(ctx context.Context, metadataGroup string) (*model.MetadataGroupToValues, error) {
	t := r.table(r.catalogs.Overviews, "metadata_group_to_values", "")
	selector := r.builder().Select().From(t).
		AppendSelectAs(t.C("metadata_group_to_values_id"), "id").
		AppendSelectAs(t.C("metadata_group"), "metadata_group").
		AppendSelectAs(t.C("v"), "v").
		Where(sql.EQ(t.C("metadata_group"), metadataGroup)).
		Limit(1)

	var groups []*model.MetadataGroupToValues
	if err := r.scanAll(ctx, selector, &groups); err != nil {
		return nil, fmt.Errorf("查询元数据组 %s 失败: %w", metadataGroup, err)
	}
	if len(groups) == 0 {
		return nil, constant.ErrNotFound
	}
	return groups[0], nil
}

type procedureMetadataGroupRepository struct {
	store
}

// NewProcedureMetadataGroupRepository 创建流程元数据组仓库
func NewProcedureMetadataGroupRepository(drv dialect.Driver, catalogs Catalogs) repository.ProcedureMetadataGroupRepository {
	return &procedureMetadataGroupRepository{store: newStore(drv, catalogs)}
}

func (r *procedureMetadataGroupRepository) FindByContext(ctx context.Context, centreID, genotypeID, strainID int64, parameterKey string) ([]*model.ProcedureMetadataGroup, error) {
	mp := r.table(r.catalogs.Overviews, "measurements_performed", "mp")
	pao := r.table(r.catalogs.Overviews, "procedure_animal_overview", "pao")

	selector := r.builder().Select().From(mp).
		AppendSelectAs(pao.C("procedure_id"), "procedure_key").
		AppendSelectAs(mp.C("metadata_group"), "metadata_group").
		Distinct()
	selector.
		Join(pao).On(pao.C("procedure_occurrence_id"), mp.C("procedure_occurrence_id")).
		Where(sql.And(
			sql.EQ(mp.C("centre_id"), centreID),
			sql.EQ(mp.C("genotype_id"), genotypeID),
			sql.EQ(mp.C("strain_id"), strainID),
			sql.EQ(mp.C("parameter_id"), parameterKey),
			sql.NotNull(mp.C("metadata_group")),
		)).
		OrderBy(pao.C("procedure_id"), mp.C("metadata_group"))

	var groups []*model.ProcedureMetadataGroup
	if err := r.scanAll(ctx, selector, &groups); err != nil {
		return nil, fmt.Errorf("查询流程元数据组失败: %w", err)
	}
	return groups, nil
}

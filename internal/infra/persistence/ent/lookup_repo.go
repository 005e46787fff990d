package ent

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/repository"
)

type lookupRepository struct {
	store
}

// NewLookupRepository 创建字典表仓库
func NewLookupRepository(drv dialect.Driver, catalogs Catalogs) repository.LookupRepository {
	return &lookupRepository{store: newStore(drv, catalogs)}
}

func (r *lookupRepository) ListPhases(ctx context.Context) ([]*model.Phase, error) {
	var phases []*model.Phase
	if err := r.listAll(ctx, "phase", []string{"id", "short_name", "description", "last_update"}, &phases); err != nil {
		return nil, fmt.Errorf("查询处理阶段失败: %w", err)
	}
	if phases == nil {
		phases = []*model.Phase{}
	}
	return phases, nil
}

func (r *lookupRepository) ListStatuses(ctx context.Context) ([]*model.Status, error) {
	var statuses []*model.Status
	if err := r.listAll(ctx, "a_status", []string{"id", "short_name", "description", "rgba", "last_update"}, &statuses); err != nil {
		return nil, fmt.Errorf("查询处理状态失败: %w", err)
	}
	if statuses == nil {
		statuses = []*model.Status{}
	}
	return statuses, nil
}

func (r *lookupRepository) ListFileExtensions(ctx context.Context) ([]*model.FileExtension, error) {
	var extensions []*model.FileExtension
	if err := r.listAll(ctx, "file_extension", []string{"id", "extension"}, &extensions); err != nil {
		return nil, fmt.Errorf("查询文件扩展名失败: %w", err)
	}
	if extensions == nil {
		extensions = []*model.FileExtension{}
	}
	return extensions, nil
}

// listAll 按 id 顺序读出整张字典表
func (r *lookupRepository) listAll(ctx context.Context, table string, columns []string, v any) error {
	t := r.table(r.catalogs.Media, table, "")
	selector := r.builder().Select().From(t)
	for _, c := range columns {
		selector.AppendSelectAs(t.C(c), c)
	}
	selector.OrderBy(t.C("id"))
	return r.scanAll(ctx, selector, v)
}

type associationRepository struct {
	store
}

// NewAssociationRepository 创建关联仓库
func NewAssociationRepository(drv dialect.Driver, catalogs Catalogs) repository.AssociationRepository {
	return &associationRepository{store: newStore(drv, catalogs)}
}

var associationColumns = []string{
	"id", "cid", "lid", "gid", "sid", "pid", "qid", "mid", "assoc_qid", "assoc_qeid", "assoc_name",
}

func (r *associationRepository) FindByMeasurement(ctx context.Context, mc model.MeasurementContext) ([]*model.Association, error) {
	t := r.table(r.catalogs.Media, "association", "")
	selector := r.builder().Select().From(t)
	for _, c := range associationColumns {
		selector.AppendSelectAs(t.C(c), c)
	}
	selector.Where(sql.And(
		sql.EQ(t.C("cid"), mc.CentreID),
		sql.EQ(t.C("lid"), mc.PipelineID),
		sql.EQ(t.C("gid"), mc.GenotypeID),
		sql.EQ(t.C("sid"), mc.StrainID),
		sql.EQ(t.C("pid"), mc.ProcedureID),
		sql.EQ(t.C("mid"), mc.MeasurementID),
	)).OrderBy(t.C("id"))

	var associations []*model.Association
	if err := r.scanAll(ctx, selector, &associations); err != nil {
		return nil, fmt.Errorf("查询测量 %d 的关联失败: %w", mc.MeasurementID, err)
	}
	if associations == nil {
		associations = []*model.Association{}
	}
	return associations, nil
}

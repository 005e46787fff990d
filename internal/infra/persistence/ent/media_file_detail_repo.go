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

type mediaFileDetailRepository struct {
	store
}

// NewMediaFileDetailRepository 创建媒体文件明细仓库
func NewMediaFileDetailRepository(drv dialect.Driver, catalogs Catalogs) repository.MediaFileDetailRepository {
	return &mediaFileDetailRepository{store: newStore(drv, catalogs)}
}

func (r *mediaFileDetailRepository) FindMutant(ctx context.Context, q model.DetailQuery) ([]*model.MediaFileDetail, error) {
	selector, mp := r.detailSelector(q, q.GenotypeID)
	selector.OrderBy(mp.C("animal_name"), mp.C("measurement_id"))

	var details []*model.MediaFileDetail
	if err := r.scanAll(ctx, selector, &details); err != nil {
		return nil, fmt.Errorf("查询突变体媒体文件失败: %w", err)
	}
	return details, nil
}

func (r *mediaFileDetailRepository) FindBaseline(ctx context.Context, q model.DetailQuery, metadataGroup string) ([]*model.MediaFileDetail, error) {
	selector, mp := r.detailSelector(q, constant.BaselineGenotype)
	selector.Where(sql.EQ(mp.C("metadata_group"), metadataGroup))
	selector.OrderBy(mp.C("animal_name"), mp.C("measurement_id"))

	var details []*model.MediaFileDetail
	if err := r.scanAll(ctx, selector, &details); err != nil {
		return nil, fmt.Errorf("查询基线媒体文件失败: %w", err)
	}
	return details, nil
}

// detailSelector 构造明细查询：以测量为主表，左连接媒体文件、扩展名以及流程/pipeline/参数字典
func (r *mediaFileDetailRepository) detailSelector(q model.DetailQuery, genotypeID int64) (*sql.Selector, *sql.SelectTable) {
	mp := r.table(r.catalogs.Overviews, "measurements_performed", "mp")
	mf := r.table(r.catalogs.Media, "media_file", "mf")
	fe := r.table(r.catalogs.Media, "file_extension", "fe")
	pao := r.table(r.catalogs.Overviews, "procedure_animal_overview", "pao")
	pr := r.table(r.catalogs.Impress, "procedure", "pr")
	pl := r.table(r.catalogs.Impress, "pipeline", "pl")
	pq := r.table(r.catalogs.Impress, "parameter", "pq")

	selector := r.builder().Select().From(mp).
		AppendSelectAs(mf.C("id"), "id").
		AppendSelectAs(mp.C("measurement_id"), "mid").
		AppendSelectAs(mp.C("animal_id"), "aid").
		AppendSelectAs(mp.C("animal_name"), "an").
		AppendSelectAs(mp.C("genotype_id"), "gid").
		AppendSelectAs(mp.C("zygosity"), "z").
		AppendSelectAs(mp.C("sex"), "g").
		AppendSelectAs(mp.C("start_date"), "d").
		AppendSelectAs(mp.C("equipment_model"), "em").
		AppendSelectAs(mp.C("equipment_manufacturer"), "en").
		AppendSelectAs(mf.C("checksum"), "c").
		AppendSelectAs(mf.C("is_image"), "i").
		AppendSelectAs(fe.C("extension"), "e").
		AppendSelectAs(mf.C("width"), "w").
		AppendSelectAs(mf.C("height"), "h").
		AppendSelectAs(mf.C("phase_id"), "p").
		AppendSelectAs(mf.C("status_id"), "s").
		AppendSelectAs(mp.C("metadata_group"), "metadata_group").
		AppendSelectAs(pl.C("pipeline_id"), "lid").
		AppendSelectAs(pr.C("procedure_id"), "pid").
		AppendSelectAs(pq.C("parameter_id"), "qid")

	selector.
		LeftJoin(mf).On(mf.C("mid"), mp.C("measurement_id")).
		LeftJoin(fe).On(fe.C("id"), mf.C("extension_id")).
		LeftJoin(pao).On(pao.C("procedure_occurrence_id"), mp.C("procedure_occurrence_id")).
		LeftJoin(pr).On(pr.C("procedure_key"), pao.C("procedure_id")).
		LeftJoin(pl).On(pl.C("pipeline_key"), pao.C("pipeline")).
		LeftJoin(pq).On(pq.C("parameter_key"), mp.C("parameter_id"))

	selector.Where(sql.And(
		sql.EQ(mp.C("centre_id"), q.CentreID),
		sql.EQ(mp.C("genotype_id"), genotypeID),
		sql.EQ(mp.C("strain_id"), q.StrainID),
		sql.EQ(mp.C("parameter_id"), q.ParameterKey),
	))
	if q.Strict {
		selector.Where(sql.And(
			sql.EQ(pr.C("procedure_id"), q.ProcedureID),
			sql.EQ(pl.C("pipeline_id"), q.PipelineID),
		))
	}
	return selector, mp
}

package ent

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/repository"
)

type mediaFileRepository struct {
	store
}

// NewMediaFileRepository 创建 media_file 仓库
func NewMediaFileRepository(drv dialect.Driver, catalogs Catalogs) repository.MediaFileRepository {
	return &mediaFileRepository{store: newStore(drv, catalogs)}
}

var mediaFileColumns = []string{
	"id", "cid", "lid", "gid", "sid", "pid", "qid", "mid", "url", "checksum", "is_image",
	"width", "height", "created", "last_update", "touched", "status_id", "phase_id", "extension_id",
}

// selectMediaFiles 构造带扩展名的 media_file 查询
func (r *mediaFileRepository) selectMediaFiles() (*sql.Selector, *sql.SelectTable) {
	mf := r.table(r.catalogs.Media, "media_file", "mf")
	fe := r.table(r.catalogs.Media, "file_extension", "fe")

	selector := r.builder().Select().From(mf)
	for _, c := range mediaFileColumns {
		selector.AppendSelectAs(mf.C(c), c)
	}
	selector.AppendSelectAs(fe.C("extension"), "extension")
	selector.LeftJoin(fe).On(fe.C("id"), mf.C("extension_id"))
	return selector, mf
}

func (r *mediaFileRepository) FindByID(ctx context.Context, id int64) (*model.MediaFile, error) {
	selector, mf := r.selectMediaFiles()
	selector.Where(sql.EQ(mf.C("id"), id))

	var files []*model.MediaFile
	if err := r.scanAll(ctx, selector, &files); err != nil {
		return nil, fmt.Errorf("查询媒体文件 %d 失败: %w", id, err)
	}
	if len(files) == 0 {
		return nil, constant.ErrNotFound
	}
	return files[0], nil
}

func (r *mediaFileRepository) List(ctx context.Context, page *model.PaginationInput) ([]*model.MediaFile, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	selector, mf := r.selectMediaFiles()
	selector.OrderBy(mf.C("id")).Limit(page.GetPageSize()).Offset(page.Offset())

	var files []*model.MediaFile
	if err := r.scanAll(ctx, selector, &files); err != nil {
		return nil, 0, fmt.Errorf("分页查询媒体文件失败: %w", err)
	}
	if files == nil {
		files = []*model.MediaFile{}
	}
	return files, total, nil
}

func (r *mediaFileRepository) Count(ctx context.Context) (int, error) {
	t := r.table(r.catalogs.Media, "media_file", "")
	n, err := r.count(ctx, r.builder().Select().From(t).Count())
	if err != nil {
		return 0, fmt.Errorf("统计媒体文件失败: %w", err)
	}
	return n, nil
}

// Create 新建的媒体文件处于 download 阶段、pending 状态
func (r *mediaFileRepository) Create(ctx context.Context, params *model.CreateMediaFileParams) (*model.MediaFile, error) {
	phaseID, err := r.lookupID(ctx, "phase", constant.PhaseDownload)
	if err != nil {
		return nil, err
	}
	statusID, err := r.lookupID(ctx, "a_status", constant.StatusPending)
	if err != nil {
		return nil, err
	}

	var extensionID any
	if params.ExtensionID != nil {
		extensionID = *params.ExtensionID
	}

	now := time.Now()
	insert := r.builder().Insert("media_file").
		Columns("cid", "lid", "gid", "sid", "pid", "qid", "mid", "url", "extension_id",
			"created", "last_update", "touched", "status_id", "phase_id").
		Values(params.CentreID, params.PipelineID, params.GenotypeID, params.StrainID,
			params.ProcedureID, params.ParameterID, params.MeasurementID, params.URL, extensionID,
			now, now, now, statusID, phaseID)
	if r.catalogs.Media != "" {
		insert.Schema(r.catalogs.Media)
	}

	var id int64
	if r.isPostgres() {
		insert.Returning("id")
		query, args := insert.Query()
		rows := &sql.Rows{}
		if err := r.drv.Query(ctx, query, args, rows); err != nil {
			return nil, fmt.Errorf("创建媒体文件失败: %w", err)
		}
		n, err := sql.ScanInt64(rows)
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("读取新建媒体文件 ID 失败: %w", err)
		}
		id = n
	} else {
		query, args := insert.Query()
		var res stdsql.Result
		if err := r.drv.Exec(ctx, query, args, &res); err != nil {
			return nil, fmt.Errorf("创建媒体文件失败: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("读取新建媒体文件 ID 失败: %w", err)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *mediaFileRepository) Update(ctx context.Context, id int64, params *model.UpdateMediaFileParams) (*model.MediaFile, error) {
	update := r.builder().Update("media_file").Set("last_update", time.Now())
	if r.catalogs.Media != "" {
		update.Schema(r.catalogs.Media)
	}
	if params.Checksum != nil {
		update.Set("checksum", *params.Checksum)
	}
	if params.IsImage != nil {
		update.Set("is_image", *params.IsImage)
	}
	if params.Width != nil {
		update.Set("width", *params.Width)
	}
	if params.Height != nil {
		update.Set("height", *params.Height)
	}
	if params.StatusID != nil {
		update.Set("status_id", *params.StatusID)
	}
	if params.PhaseID != nil {
		update.Set("phase_id", *params.PhaseID)
	}
	update.Where(sql.EQ("id", id))

	affected, err := r.exec(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("更新媒体文件 %d 失败: %w", id, err)
	}
	if affected == 0 {
		return nil, constant.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *mediaFileRepository) Delete(ctx context.Context, id int64) error {
	del := r.builder().Delete("media_file").Where(sql.EQ("id", id))
	if r.catalogs.Media != "" {
		del.Schema(r.catalogs.Media)
	}
	affected, err := r.exec(ctx, del)
	if err != nil {
		return fmt.Errorf("删除媒体文件 %d 失败: %w", id, err)
	}
	if affected == 0 {
		return constant.ErrNotFound
	}
	return nil
}

func (r *mediaFileRepository) exec(ctx context.Context, q sql.Querier) (int64, error) {
	query, args := q.Query()
	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// lookupID 按 short_name 查找阶段或状态的 ID
func (r *mediaFileRepository) lookupID(ctx context.Context, table, shortName string) (int, error) {
	t := r.table(r.catalogs.Media, table, "")
	selector := r.builder().Select(t.C("id")).From(t).
		Where(sql.EQ(t.C("short_name"), shortName)).
		Limit(1)

	var ids []int
	if err := r.scanAll(ctx, selector, &ids); err != nil {
		return 0, fmt.Errorf("查询 %s.%s 失败: %w", table, shortName, err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%s 中缺少 %s: %w", table, shortName, constant.ErrNotFound)
	}
	return ids[0], nil
}

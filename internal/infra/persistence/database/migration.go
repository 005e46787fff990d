package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
)

// MigrationService 为本地 SQLite 库创建表结构。
// MySQL/PostgreSQL 下的各个库由数据采集流程维护，这里不做任何变更。
type MigrationService struct {
	db     *sql.DB
	dbType string
}

// NewMigrationService 创建迁移服务
func NewMigrationService(db *sql.DB, dbType string) *MigrationService {
	return &MigrationService{
		db:     db,
		dbType: dbType,
	}
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS measurements_performed (
		measurement_id INTEGER PRIMARY KEY,
		procedure_occurrence_id INTEGER NOT NULL,
		centre_id INTEGER NOT NULL,
		genotype_id INTEGER NOT NULL,
		strain_id INTEGER NOT NULL,
		parameter_id TEXT NOT NULL,
		animal_id INTEGER NOT NULL,
		animal_name TEXT NOT NULL DEFAULT '',
		zygosity INTEGER NOT NULL DEFAULT 0,
		sex INTEGER NOT NULL DEFAULT 0,
		start_date DATETIME,
		equipment_manufacturer TEXT NOT NULL DEFAULT '',
		equipment_model TEXT NOT NULL DEFAULT '',
		metadata_group TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mp_context ON measurements_performed (centre_id, genotype_id, strain_id, parameter_id)`,
	`CREATE TABLE IF NOT EXISTS procedure_animal_overview (
		procedure_occurrence_id INTEGER PRIMARY KEY,
		procedure_id TEXT NOT NULL,
		pipeline TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS metadata_group_to_values (
		metadata_group_to_values_id INTEGER PRIMARY KEY,
		metadata_group TEXT NOT NULL UNIQUE,
		v TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS pipeline (
		pipeline_id INTEGER PRIMARY KEY,
		pipeline_key TEXT NOT NULL UNIQUE
	)`,
	"CREATE TABLE IF NOT EXISTS `procedure` (procedure_id INTEGER PRIMARY KEY, procedure_key TEXT NOT NULL UNIQUE)",
	`CREATE TABLE IF NOT EXISTS parameter (
		parameter_id INTEGER PRIMARY KEY,
		parameter_key TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS phase (
		id INTEGER PRIMARY KEY,
		short_name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		last_update DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS a_status (
		id INTEGER PRIMARY KEY,
		short_name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		rgba TEXT NOT NULL DEFAULT '',
		last_update DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS file_extension (
		id INTEGER PRIMARY KEY,
		extension TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS media_file (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cid INTEGER NOT NULL,
		lid INTEGER NOT NULL,
		gid INTEGER NOT NULL,
		sid INTEGER NOT NULL,
		pid INTEGER NOT NULL,
		qid INTEGER NOT NULL,
		mid INTEGER NOT NULL,
		url TEXT NOT NULL,
		checksum TEXT,
		is_image INTEGER,
		width INTEGER,
		height INTEGER,
		created DATETIME,
		last_update DATETIME,
		touched DATETIME,
		status_id INTEGER NOT NULL,
		phase_id INTEGER NOT NULL,
		extension_id INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_media_file_mid ON media_file (mid)`,
	`CREATE TABLE IF NOT EXISTS association (
		id INTEGER PRIMARY KEY,
		cid INTEGER NOT NULL,
		lid INTEGER NOT NULL,
		gid INTEGER NOT NULL,
		sid INTEGER NOT NULL,
		pid INTEGER NOT NULL,
		qid INTEGER NOT NULL,
		mid INTEGER NOT NULL,
		assoc_qid INTEGER NOT NULL,
		assoc_qeid TEXT NOT NULL,
		assoc_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS preprocessed (
		id INTEGER PRIMARY KEY,
		image_name TEXT NOT NULL,
		status_id INTEGER NOT NULL
	)`,
	`INSERT OR IGNORE INTO phase (id, short_name, description) VALUES
		(1, 'download', 'Download media file'),
		(2, 'checksum', 'Calculate checksum'),
		(3, 'tile', 'Generate image tiles')`,
	`INSERT OR IGNORE INTO a_status (id, short_name, description, rgba) VALUES
		(1, 'pending', 'Waiting to be processed', 'ffffffff'),
		(2, 'running', 'Processing', 'ffff00ff'),
		(3, 'done', 'Finished', '00ff00ff'),
		(4, 'cancelled', 'Cancelled', '888888ff'),
		(5, 'failed', 'Failed', 'ff0000ff')`,
}

// RunMigrations 执行所有迁移
func (m *MigrationService) RunMigrations(ctx context.Context) error {
	if m.dbType != "sqlite" {
		logging.Info().Str("type", m.dbType).Msg("外部维护的数据库，跳过表结构迁移")
		return nil
	}

	for i, stmt := range sqliteSchema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("执行第 %d 条迁移语句失败: %w", i+1, err)
		}
	}
	logging.Info().Int("statements", len(sqliteSchema)).Msg("SQLite 表结构迁移完成")
	return nil
}

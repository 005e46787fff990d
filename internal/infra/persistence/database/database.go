package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/pkg/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DBType 返回规范化后的数据库类型：mysql / postgres / sqlite
func DBType(cfg *config.Config) string {
	switch t := cfg.GetString(config.KeyDBType); t {
	case "mysql", "mariadb":
		return "mysql"
	case "postgres", "postgresql":
		return "postgres"
	case "", "sqlite", "sqlite3":
		return "sqlite"
	default:
		return t
	}
}

// NewSQLDB 创建并返回一个标准的 *sql.DB 连接池。
// 调用方负责在退出时关闭。
func NewSQLDB(cfg *config.Config) (*sql.DB, error) {
	dbType := DBType(cfg)

	dbUser := cfg.GetString(config.KeyDBUser)
	dbPass := cfg.GetString(config.KeyDBPassword)
	dbHost := cfg.GetString(config.KeyDBHost)
	dbPort := cfg.GetString(config.KeyDBPort)
	dbName := cfg.GetString(config.KeyDBName)

	var dsn, driverName string
	switch dbType {
	case "mysql":
		driverName = "mysql"
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, fmt.Errorf("MySQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbUser, dbPass, dbHost, dbPort, dbName)
	case "postgres":
		driverName = "postgres"
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, fmt.Errorf("PostgreSQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPass, dbName)
	case "sqlite":
		driverName = "sqlite3"
		dataDir := "./data"
		if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("无法创建 data 目录: %w", err)
		}
		if dbName == "" {
			dbName = "phenodcc_media.db"
		}
		finalPath := filepath.Join(dataDir, dbName)
		logging.Info().Str("path", finalPath).Msg("使用 SQLite 数据库")
		dsn = SQLiteDSN(finalPath)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s (支持: mysql/mariadb, postgres, sqlite)", dbType)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("打开 sql.DB 连接失败 (驱动: %s): %w", driverName, err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("无法 Ping 通数据库 (类型: %s): %w", dbType, err)
	}

	logging.Info().Str("type", dbType).Msg("数据库连接池创建成功")
	return db, nil
}

// SQLiteDSN 构造 ncruces/go-sqlite3 使用的 file: DSN
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// NewDriver 用已有连接池构造 ent 的 SQL 驱动，Database.Debug 为 true 时打印所有语句
func NewDriver(db *sql.DB, cfg *config.Config) (dialect.Driver, error) {
	var drv dialect.Driver
	switch DBType(cfg) {
	case "mysql":
		drv = entsql.OpenDB(dialect.MySQL, db)
	case "postgres":
		drv = entsql.OpenDB(dialect.Postgres, db)
	case "sqlite":
		drv = entsql.OpenDB(dialect.SQLite, db)
	default:
		return nil, fmt.Errorf("不支持的 SQL 方言: %s", cfg.GetString(config.KeyDBType))
	}

	if cfg.GetBool(config.KeyDBDebug) {
		drv = dialect.DebugWithContext(drv, func(ctx context.Context, v ...any) {
			logging.Ctx(ctx).Debug().Msg(fmt.Sprint(v...))
		})
		logging.Info().Msg("数据库 Debug 模式已开启，将打印所有执行的 SQL 语句")
	}
	return drv, nil
}

package ent

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
)

// Catalogs 记录各组表所在的库，MySQL 下作为 schema 前缀，SQLite 下被忽略
type Catalogs struct {
	Media     string
	Overviews string
	Impress   string
	Embryo    string
}

// store 是所有仓库共用的查询基础设施
type store struct {
	drv      dialect.Driver
	catalogs Catalogs
}

func newStore(drv dialect.Driver, catalogs Catalogs) store {
	return store{drv: drv, catalogs: catalogs}
}

func (s store) builder() *sql.DialectBuilder {
	return sql.Dialect(s.drv.Dialect())
}

// table 返回带库前缀和别名的表
func (s store) table(catalog, name, alias string) *sql.SelectTable {
	t := s.builder().Table(name)
	if catalog != "" {
		t.Schema(catalog)
	}
	if alias != "" {
		t.As(alias)
	}
	return t
}

// scanAll 执行查询并把结果映射到 v（切片指针）
func (s store) scanAll(ctx context.Context, selector *sql.Selector, v any) error {
	query, args := selector.Query()
	rows := &sql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	return sql.ScanSlice(rows, v)
}

// count 执行 COUNT 查询
func (s store) count(ctx context.Context, selector *sql.Selector) (int, error) {
	query, args := selector.Query()
	rows := &sql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	n, err := sql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("读取计数失败: %w", err)
	}
	return n, nil
}

func (s store) isPostgres() bool {
	return s.drv.Dialect() == dialect.Postgres
}

package repository

import (
	"context"
	"database/sql"

	"github.com/odontoagenda/agenda/backend/internal/config"
)

// Repository 封装所有 PostgreSQL 访问，除登录等少数查询外都按诊所（clinic_id）隔离
type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// Ping 检查数据库是否可用
func (r *Repository) Ping(ctx context.Context) error {
	return r.dbpool.PingContext(ctx)
}

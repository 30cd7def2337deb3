// Package ordering 为按父级范围排序的记录计算插入位置。
package ordering

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

// Field 描述一个自排序字段：position 列名与限定兄弟范围的列集合。
// ScopeBy 为空时在整张表上取全局最大值。
type Field struct {
	Column  string
	ScopeBy []string
}

// Next 计算范围内下一个位置：MAX(Column)+1，范围内无记录时为 0。
// scopeValues 与 ScopeBy 一一对应。调用方需在创建事务内调用，
// 读取最大值与写入之间没有额外加锁，并发创建可能得到相同位置。
func (f Field) Next(tx *gorm.DB, model any, scopeValues ...any) (int, error) {
	if len(scopeValues) != len(f.ScopeBy) {
		return 0, fmt.Errorf("ordering: expected %d scope values, got %d", len(f.ScopeBy), len(scopeValues))
	}

	q := tx.Session(&gorm.Session{NewDB: true}).Model(model)
	for i, col := range f.ScopeBy {
		q = q.Where(col+" = ?", scopeValues[i])
	}

	var max sql.NullInt64
	if err := q.Select("MAX(" + f.Column + ")").Scan(&max).Error; err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

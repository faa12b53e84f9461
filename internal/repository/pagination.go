package repository

import "gorm.io/gorm"

// applyPagination 应用分页参数；pageSize<=0 表示不分页
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// findPage 统计总数后按页查询，scopes 用于预加载等只影响取数的选项
func findPage[T any](query *gorm.DB, page, pageSize int, order string, dest *[]T, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		*dest = []T{}
		return 0, nil
	}
	query = applyPagination(query, page, pageSize).Scopes(scopes...)
	if order != "" {
		query = query.Order(order)
	}
	if err := query.Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// localizedJSONSearchKeys 商品名称检索覆盖的语言
var localizedJSONSearchKeys = []string{"en", "ar"}

// likeEscapeChar LIKE 模式的转义字符，需与 escapeLikePattern 保持一致
const likeEscapeChar = `\`

var likePatternEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgres(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

func jsonTextExprByDialect(dialect, column, key string) string {
	if isPostgres(dialect) {
		// postgres 统一转 jsonb 后再使用 ->> 提取文本
		return fmt.Sprintf("(%s::jsonb ->> '%s')", column, key)
	}
	// sqlite 使用 json_extract，语言键加引号
	return fmt.Sprintf("json_extract(%s, '$.\"%s\"')", column, key)
}

// escapeLikePattern 转义用户输入中的 LIKE 通配符，商品名中的 % 与 _ 按字面匹配
func escapeLikePattern(term string) string {
	return likePatternEscaper.Replace(term)
}

// containsPattern 构建“包含”匹配模式
func containsPattern(term string) string {
	return "%" + escapeLikePattern(term) + "%"
}

// localizedLikeQuery 构建普通列 + JSON 多语言列的“包含”条件及其参数；
// postgres 使用 ILIKE，sqlite 的 LIKE 对 ASCII 本身不区分大小写。
func localizedLikeQuery(db *gorm.DB, term string, plainColumns, jsonColumns []string) (string, []interface{}) {
	condition, argCount := buildLocalizedLikeConditionByDialect(dbDialectName(db), plainColumns, jsonColumns)
	return condition, repeatLikeArgs(containsPattern(term), argCount)
}

func buildLocalizedLikeConditionByDialect(dialect string, plainColumns, jsonColumns []string) (string, int) {
	parts := make([]string, 0, len(plainColumns)+len(jsonColumns)*len(localizedJSONSearchKeys))
	operator := "LIKE"
	if isPostgres(dialect) {
		operator = "ILIKE"
	}
	clause := func(expr string) string {
		return fmt.Sprintf("%s %s ? ESCAPE '%s'", expr, operator, likeEscapeChar)
	}

	for _, column := range plainColumns {
		if trimmed := strings.TrimSpace(column); trimmed != "" {
			parts = append(parts, clause(trimmed))
		}
	}
	for _, column := range jsonColumns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		for _, key := range localizedJSONSearchKeys {
			parts = append(parts, clause(jsonTextExprByDialect(dialect, trimmed, key)))
		}
	}
	return strings.Join(parts, " OR "), len(parts)
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}

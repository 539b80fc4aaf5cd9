package postgres

import (
	"strconv"
	"strings"
	"time"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// placeholder は次に追加する引数のプレースホルダを返します。
func placeholder(args []any) string {
	return "$" + strconv.Itoa(len(args)+1)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern は部分一致用の LIKE パターンを返します。ESCAPE '\' と組み合わせて使います。
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

// nextPageToken は limit+1 件取得した結果から次ページのトークンを求め、余分な 1 件を除きます。
func nextPageToken[T any](items []T, limit, offset int) ([]T, string) {
	if len(items) > limit {
		return items[:limit], strconv.Itoa(offset + limit)
	}
	return items, ""
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

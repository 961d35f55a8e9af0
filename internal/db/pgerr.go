package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// sqlState достаёт SQLSTATE от обоих драйверов (pgx в проде, lib/pq в тестах).
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsUniqueViolation(err error) bool { return sqlState(err) == uniqueViolation }

// IsForeignKeyViolation: ссылка на несуществующего студента/курс или удаление родителя раньше детей.
func IsForeignKeyViolation(err error) bool { return sqlState(err) == foreignKeyViolation }

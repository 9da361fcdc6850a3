package helper

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKey mendeteksi pelanggaran unique index lintas driver
// (postgres "duplicate key value violates unique constraint",
// sqlite "UNIQUE constraint failed").
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

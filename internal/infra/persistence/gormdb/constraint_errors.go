package gormdb

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type constraintKind int

const (
	noConstraint constraintKind = iota
	uniqueConstraint
	foreignKeyConstraint
	notNullConstraint
	valueTooLong
)

// constraintMarkers holds lowercase fragments of postgres (SQLSTATE 23xxx, 22001) and
// sqlite messages, for drivers that do not translate errors into gorm sentinels.
var constraintMarkers = []struct {
	kind    constraintKind
	markers []string
}{
	{uniqueConstraint, []string{"sqlstate 23505", "duplicate key", "unique constraint"}},
	{foreignKeyConstraint, []string{"sqlstate 23503", "foreign key constraint"}},
	{notNullConstraint, []string{"sqlstate 23502", "not null constraint", "null value"}},
	{valueTooLong, []string{"sqlstate 22001", "value too long"}},
}

func classifyConstraint(err error) constraintKind {
	switch {
	case err == nil:
		return noConstraint
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return uniqueConstraint
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return foreignKeyConstraint
	}

	msg := strings.ToLower(err.Error())
	for _, c := range constraintMarkers {
		for _, marker := range c.markers {
			if strings.Contains(msg, marker) {
				return c.kind
			}
		}
	}

	return noConstraint
}

func isValueTooLong(err error) bool {
	return classifyConstraint(err) == valueTooLong
}

func isConstraintViolation(err error) bool {
	return classifyConstraint(err) != noConstraint
}

func isUniqueConstraintViolation(err error) bool {
	return classifyConstraint(err) == uniqueConstraint
}

func isForeignKeyConstraintViolation(err error) bool {
	return classifyConstraint(err) == foreignKeyConstraint
}

func isNotNullConstraintViolation(err error) bool {
	return classifyConstraint(err) == notNullConstraint
}

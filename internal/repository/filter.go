package repository

import "github.com/ri4re/linebot/internal/domain"

type Op string

const (
	OpEquals    Op = "equals"
	OpNotEquals Op = "does_not_equal"
	OpContains  Op = "contains"
)

// Filter is a boolean tree. A node is either a compound (And or Or set) or a leaf
// predicate on Field.
type Filter struct {
	And []*Filter
	Or  []*Filter

	Field domain.Field
	Op    Op
	Value string
}

func Equals(f domain.Field, v string) *Filter {
	return &Filter{Field: f, Op: OpEquals, Value: v}
}

func NotEquals(f domain.Field, v string) *Filter {
	return &Filter{Field: f, Op: OpNotEquals, Value: v}
}

func Contains(f domain.Field, v string) *Filter {
	return &Filter{Field: f, Op: OpContains, Value: v}
}

func And(fs ...*Filter) *Filter {
	return &Filter{And: fs}
}

func Or(fs ...*Filter) *Filter {
	return &Filter{Or: fs}
}

func (f *Filter) IsCompound() bool {
	return len(f.And) > 0 || len(f.Or) > 0
}

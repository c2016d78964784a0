// Package registry resolves a free-form subsidy registry sheet into member
// records.
//
// Column names vary between sheet revisions, so logical columns are found
// by an ordered list of Rules applied to normalized header names.
package registry

import (
	"strings"

	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Table is a header row plus data rows, as read from a sheet.
type Table struct {
	Header []string
	Rows   [][]string
}

// Resolution records which header won each logical column.
type Resolution struct {
	Normalized []string
	columns    map[Column]int
}

// Index returns the header position resolved for col.
func (r Resolution) Index(col Column) (int, bool) {
	i, ok := r.columns[col]
	return i, ok
}

// Header returns the normalized header resolved for col.
func (r Resolution) Header(col Column) (string, bool) {
	i, ok := r.columns[col]
	if !ok {
		return "", false
	}
	return r.Normalized[i], true
}

// Registry is the resolved member list with lookup indexes. Immutable.
type Registry struct {
	Members    []model.MemberRecord
	Resolution Resolution

	byID   map[int64]int
	byName map[string]int
}

// New indexes members. The first record wins for duplicate identifiers
// and duplicate names.
func New(members []model.MemberRecord) *Registry {
	reg := &Registry{
		Members: members,
		byID:    make(map[int64]int, len(members)),
		byName:  make(map[string]int, len(members)),
	}
	for i, m := range members {
		if m.ID.Valid {
			if _, dup := reg.byID[m.ID.Value]; !dup {
				reg.byID[m.ID.Value] = i
			}
		}
		if m.HasName {
			if _, dup := reg.byName[m.Name]; !dup {
				reg.byName[m.Name] = i
			}
		}
	}
	return reg
}

// LookupID finds the member with the identifier.
func (r *Registry) LookupID(id model.Identifier) (model.MemberRecord, bool) {
	if r == nil || !id.Valid {
		return model.MemberRecord{}, false
	}
	i, ok := r.byID[id.Value]
	if !ok {
		return model.MemberRecord{}, false
	}
	return r.Members[i], true
}

// LookupName finds the member with exactly this name.
func (r *Registry) LookupName(name string) (model.MemberRecord, bool) {
	if r == nil || name == "" {
		return model.MemberRecord{}, false
	}
	i, ok := r.byName[name]
	if !ok {
		return model.MemberRecord{}, false
	}
	return r.Members[i], true
}

// Len returns the number of member records.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Members)
}

// Resolver maps tables onto member records.
type Resolver struct {
	rules []Rule
}

// NewResolver creates a resolver. With no rules the default tokens apply.
func NewResolver(rules ...Rule) *Resolver {
	if len(rules) == 0 {
		rules = DefaultTokens().Rules()
	}
	return &Resolver{rules: rules}
}

// Resolve normalizes the header, resolves the logical columns and coerces
// every row. Only a missing required column fails; bad cell values degrade
// to an absent identifier or a zero subsidy.
func (r *Resolver) Resolve(t Table) (*Registry, error) {
	res, err := r.resolveColumns(t.Header)
	if err != nil {
		return nil, err
	}

	members := make([]model.MemberRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		members = append(members, coerceRow(res, row))
	}

	reg := New(members)
	reg.Resolution = res
	return reg, nil
}

func (r *Resolver) resolveColumns(header []string) (Resolution, error) {
	res := Resolution{
		Normalized: make([]string, len(header)),
		columns:    make(map[Column]int, len(r.rules)),
	}
	for i, h := range header {
		res.Normalized[i] = NormalizeHeader(h)
	}

	claimed := make(map[int]bool, len(r.rules))
	for _, rule := range r.rules {
		found := -1
		for i, h := range res.Normalized {
			if claimed[i] || h == "" {
				continue
			}
			if rule.Match(h) {
				found = i
				break
			}
		}
		if found < 0 {
			if rule.Required {
				return Resolution{}, &SchemaError{
					Column:    rule.Column,
					Rule:      rule.Desc,
					Available: append([]string(nil), res.Normalized...),
				}
			}
			continue
		}
		claimed[found] = true
		res.columns[rule.Column] = found
	}
	return res, nil
}

func coerceRow(res Resolution, row []string) model.MemberRecord {
	var m model.MemberRecord
	if v, ok := cell(res, row, ColumnID); ok {
		m.ID = model.ParseIdentifier(v)
	}
	m.Subsidy = decimal.Zero
	if v, ok := cell(res, row, ColumnSubsidy); ok {
		m.Subsidy = parseSubsidy(v)
	}
	if v, ok := cell(res, row, ColumnName); ok {
		m.Name = strings.TrimSpace(v)
		m.HasName = m.Name != ""
	}
	return m
}

func cell(res Resolution, row []string, col Column) (string, bool) {
	i, ok := res.Index(col)
	if !ok {
		return "", false
	}
	if i >= len(row) {
		return "", true
	}
	return row[i], true
}

// parseSubsidy coerces a subsidy cell. Unparseable or negative values are zero.
func parseSubsidy(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

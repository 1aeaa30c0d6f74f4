package store

// DefaultLimit is the page size applied when a caller does not request one.
const DefaultLimit = 100

/***** Condition *****/

// Operator is the comparison applied by a Condition.
type Operator int

const (
	OpEq Operator = iota
	OpNotEq
	OpGt
	OpIsNull
	OpIsNotNull
)

// Condition is a single column predicate. Conditions of a Filter are combined with AND.
type Condition struct {
	column   string
	operator Operator
	value    any
}

// Eq matches rows where column equals value.
func Eq(column string, value any) Condition {
	return Condition{column: column, operator: OpEq, value: value}
}

// NotEq matches rows where column differs from value.
func NotEq(column string, value any) Condition {
	return Condition{column: column, operator: OpNotEq, value: value}
}

// Gt matches rows where column is greater than value.
func Gt(column string, value any) Condition {
	return Condition{column: column, operator: OpGt, value: value}
}

// IsNull matches rows where column is NULL.
func IsNull(column string) Condition {
	return Condition{column: column, operator: OpIsNull}
}

// IsNotNull matches rows where column is not NULL.
func IsNotNull(column string) Condition {
	return Condition{column: column, operator: OpIsNotNull}
}

func (c Condition) Column() string {
	return c.column
}

func (c Condition) Operator() Operator {
	return c.operator
}

func (c Condition) Value() any {
	return c.value
}

/***** Filter *****/

// Filter selects rows of one entity kind. The zero value matches all rows without a window.
//
// A Filter is immutable, every builder method returns a modified copy:
//
//	filter := store.Where(store.Eq(store.ColMemberID, memberID)).
//		And(store.IsNull(store.ColReturnDate)).
//		Window(skip, limit)
type Filter struct {
	conditions []Condition
	offset     uint
	limit      uint
	windowed   bool
	forUpdate  bool
}

// Where starts a Filter with the given conditions.
func Where(conditions ...Condition) Filter {
	return Filter{}.And(conditions...)
}

// All returns a Filter that matches every row.
func All() Filter {
	return Filter{}
}

// ByKey returns a Filter matching the row of kind with the given identifier.
func ByKey(kind Kind, id int64) Filter {
	return Where(Eq(kind.Key(), id))
}

// And adds conditions to the filter.
func (f Filter) And(conditions ...Condition) Filter {
	merged := make([]Condition, 0, len(f.conditions)+len(conditions))
	merged = append(merged, f.conditions...)
	merged = append(merged, conditions...)
	f.conditions = merged

	return f
}

// Window restricts the result to limit rows after skipping offset rows.
// A limit of 0 is replaced by DefaultLimit.
func (f Filter) Window(offset, limit uint) Filter {
	if limit == 0 {
		limit = DefaultLimit
	}

	f.offset = offset
	f.limit = limit
	f.windowed = true

	return f
}

// Locked requests row-level locks on the matched rows for the rest of the transaction,
// on engines that support them.
func (f Filter) Locked() Filter {
	f.forUpdate = true
	return f
}

func (f Filter) Conditions() []Condition {
	return f.conditions
}

func (f Filter) Offset() uint {
	return f.offset
}

func (f Filter) Limit() uint {
	return f.limit
}

// Windowed reports whether Offset and Limit apply.
func (f Filter) Windowed() bool {
	return f.windowed
}

// ForUpdate reports whether matched rows should be locked.
func (f Filter) ForUpdate() bool {
	return f.forUpdate
}

package model

// ColumnRole is a semantic meaning assigned to one table column.
type ColumnRole string

const (
	RoleProduct  ColumnRole = "product"
	RoleCategory ColumnRole = "category"
	RoleVariant  ColumnRole = "variant"
	RolePrice    ColumnRole = "price"
	RoleQuantity ColumnRole = "quantity"
	RoleRevenue  ColumnRole = "revenue"
	RoleSKU      ColumnRole = "sku"
	RoleDate     ColumnRole = "date"
)

// AllRoles lists every role in resolution priority order.
var AllRoles = []ColumnRole{
	RoleDate,
	RoleSKU,
	RoleProduct,
	RoleCategory,
	RoleVariant,
	RoleRevenue,
	RolePrice,
	RoleQuantity,
}

// RoleAssignment records how one role was bound to a column.
type RoleAssignment struct {
	Role        ColumnRole `json:"role"`
	ColumnIndex int        `json:"columnIndex"`
	ColumnName  string     `json:"columnName"`
	Source      string     `json:"source"` // header/content
	Score       float64    `json:"score"`
}

// RoleMap assigns semantic roles to column indices. A role missing from the
// map is absent; a column index is bound to at most one role.
type RoleMap struct {
	assignments map[ColumnRole]RoleAssignment
	claimed     map[int]ColumnRole
}

// NewRoleMap creates an empty role map.
func NewRoleMap() *RoleMap {
	return &RoleMap{
		assignments: make(map[ColumnRole]RoleAssignment),
		claimed:     make(map[int]ColumnRole),
	}
}

// Assign binds a role to a column. It refuses when the role is already
// resolved or the column already claimed, and reports whether it took effect.
func (m *RoleMap) Assign(a RoleAssignment) bool {
	if _, ok := m.assignments[a.Role]; ok {
		return false
	}
	if _, ok := m.claimed[a.ColumnIndex]; ok {
		return false
	}
	m.assignments[a.Role] = a
	m.claimed[a.ColumnIndex] = a.Role
	return true
}

// Reset removes a role assignment, freeing its column.
func (m *RoleMap) Reset(role ColumnRole) {
	if a, ok := m.assignments[role]; ok {
		delete(m.claimed, a.ColumnIndex)
		delete(m.assignments, role)
	}
}

// Column returns the column index bound to the role.
func (m *RoleMap) Column(role ColumnRole) (int, bool) {
	a, ok := m.assignments[role]
	return a.ColumnIndex, ok
}

// Has reports whether the role is resolved.
func (m *RoleMap) Has(role ColumnRole) bool {
	_, ok := m.assignments[role]
	return ok
}

// Claimed reports whether the column index is already bound to some role.
func (m *RoleMap) Claimed(col int) bool {
	_, ok := m.claimed[col]
	return ok
}

// Assignment returns the full assignment record for a role.
func (m *RoleMap) Assignment(role ColumnRole) (RoleAssignment, bool) {
	a, ok := m.assignments[role]
	return a, ok
}

// Assignments returns every assignment keyed by role.
func (m *RoleMap) Assignments() map[ColumnRole]RoleAssignment {
	out := make(map[ColumnRole]RoleAssignment, len(m.assignments))
	for r, a := range m.assignments {
		out[r] = a
	}
	return out
}

// Package policy maps caller roles to permitted operations. It is a pure
// table: ownership restrictions (a waiter editing only their own orders)
// and the chef's item-status-only constraint are enforced by the order
// service, which receives the caller identity explicitly.
package policy

import "restaurant-manager/internal/models"

type Operation string

const (
	OpManageUsers        Operation = "users.manage"
	OpWriteTables        Operation = "tables.write"
	OpManageReservations Operation = "reservations.manage"
	OpCreateOrder        Operation = "orders.create"
	OpUpdateOrder        Operation = "orders.update"
	OpDeleteOrder        Operation = "orders.delete"
	OpWriteGroceries     Operation = "groceries.write"
	OpRead               Operation = "read"
)

var grants = map[models.Role]map[Operation]bool{
	models.RoleAdmin: {
		OpManageUsers:        true,
		OpWriteTables:        true,
		OpManageReservations: true,
		OpCreateOrder:        true,
		OpUpdateOrder:        true,
		OpDeleteOrder:        true,
		OpWriteGroceries:     true,
		OpRead:               true,
	},
	models.RoleReceptionist: {
		OpManageReservations: true,
		OpRead:               true,
	},
	models.RoleWaiter: {
		OpCreateOrder: true,
		OpUpdateOrder: true, // owner-only, enforced by the order service
		OpRead:        true,
	},
	models.RoleChef: {
		OpUpdateOrder:    true, // item-status only, enforced by the order service
		OpWriteGroceries: true,
		OpRead:           true,
	},
}

// Allowed reports whether role may perform op.
func Allowed(role models.Role, op Operation) bool {
	return grants[role][op]
}

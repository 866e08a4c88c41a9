package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"restaurant-manager/internal/models"
)

func TestAllowedMatrix(t *testing.T) {
	tests := []struct {
		role models.Role
		op   Operation
		want bool
	}{
		{models.RoleAdmin, OpManageUsers, true},
		{models.RoleAdmin, OpWriteTables, true},
		{models.RoleAdmin, OpManageReservations, true},
		{models.RoleAdmin, OpCreateOrder, true},
		{models.RoleAdmin, OpUpdateOrder, true},
		{models.RoleAdmin, OpDeleteOrder, true},
		{models.RoleAdmin, OpWriteGroceries, true},
		{models.RoleAdmin, OpRead, true},

		{models.RoleReceptionist, OpManageUsers, false},
		{models.RoleReceptionist, OpWriteTables, false},
		{models.RoleReceptionist, OpManageReservations, true},
		{models.RoleReceptionist, OpCreateOrder, false},
		{models.RoleReceptionist, OpUpdateOrder, false},
		{models.RoleReceptionist, OpDeleteOrder, false},
		{models.RoleReceptionist, OpWriteGroceries, false},
		{models.RoleReceptionist, OpRead, true},

		{models.RoleWaiter, OpManageUsers, false},
		{models.RoleWaiter, OpWriteTables, false},
		{models.RoleWaiter, OpManageReservations, false},
		{models.RoleWaiter, OpCreateOrder, true},
		{models.RoleWaiter, OpUpdateOrder, true},
		{models.RoleWaiter, OpDeleteOrder, false},
		{models.RoleWaiter, OpWriteGroceries, false},
		{models.RoleWaiter, OpRead, true},

		{models.RoleChef, OpManageUsers, false},
		{models.RoleChef, OpWriteTables, false},
		{models.RoleChef, OpManageReservations, false},
		{models.RoleChef, OpCreateOrder, false},
		{models.RoleChef, OpUpdateOrder, true},
		{models.RoleChef, OpDeleteOrder, false},
		{models.RoleChef, OpWriteGroceries, true},
		{models.RoleChef, OpRead, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.op))
		})
	}
}

func TestAllowedUnknownRoleDeniedEverything(t *testing.T) {
	for _, op := range []Operation{
		OpManageUsers, OpWriteTables, OpManageReservations,
		OpCreateOrder, OpUpdateOrder, OpDeleteOrder, OpWriteGroceries, OpRead,
	} {
		assert.False(t, Allowed(models.Role("intern"), op))
	}
}

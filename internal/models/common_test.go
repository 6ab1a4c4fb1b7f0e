// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleGuest, RoleUser, RoleDJ, RolePromoter, RoleCreator, RoleAdmin} {
		assert.True(t, role.Valid(), "role %s", role)
	}

	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestRoleProfessional(t *testing.T) {
	assert.True(t, RoleDJ.Professional())
	assert.True(t, RolePromoter.Professional())
	assert.True(t, RoleCreator.Professional())

	assert.False(t, RoleUser.Professional())
	assert.False(t, RoleGuest.Professional())
	assert.False(t, RoleAdmin.Professional())
}

func TestTicketTypeValid(t *testing.T) {
	assert.True(t, TicketTypeIndividual.Valid())
	assert.True(t, TicketTypeGroup.Valid())
	assert.False(t, TicketType("vip").Valid())
}

func TestEventRemaining(t *testing.T) {
	e := &Event{Capacity: 100, TicketsSold: 97}
	assert.Equal(t, 3, e.Remaining())

	e.TicketsSold = 100
	assert.Equal(t, 0, e.Remaining())
}

func TestEventPriceFor(t *testing.T) {
	e := &Event{IndividualPrice: 49.99, GroupPrice: 39.99}

	assert.Equal(t, 49.99, e.PriceFor(TicketTypeIndividual))
	assert.Equal(t, 39.99, e.PriceFor(TicketTypeGroup))

	// No group price means group tickets sell at the individual rate.
	e.GroupPrice = 0
	assert.Equal(t, 49.99, e.PriceFor(TicketTypeGroup))
}

package auth

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
)

type Permission string

const (
	PermInventoryAdjust Permission = "inventory.adjust"
	PermInventoryCount  Permission = "inventory.count"
	PermTransferCreate  Permission = "transfer.create"
	PermTransferApprove Permission = "transfer.approve"
	PermTransferShip    Permission = "transfer.ship"
	PermTransferReceive Permission = "transfer.receive"
	PermTransferCancel  Permission = "transfer.cancel"
	PermPurchaseCreate  Permission = "purchase.create"
	PermPurchaseApprove Permission = "purchase.approve"
	PermPurchaseSend    Permission = "purchase.send"
	PermPurchaseReceive Permission = "purchase.receive"
	PermReorderManage   Permission = "reorder.manage"
	PermLocationManage  Permission = "location.manage"
)

const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleSystem  = "system"
)

// Authorizer decides whether the actor in ctx may perform perm.
type Authorizer interface {
	Authorize(ctx context.Context, perm Permission) error
}

type RoleAuthorizer struct {
	grants map[string]map[Permission]bool
}

// NewRoleAuthorizer returns the default grant table. Managers get everything
// except location management. RoleSystem is what the order listener runs as.
func NewRoleAuthorizer() *RoleAuthorizer {
	all := []Permission{
		PermInventoryAdjust, PermInventoryCount,
		PermTransferCreate, PermTransferApprove, PermTransferShip, PermTransferReceive, PermTransferCancel,
		PermPurchaseCreate, PermPurchaseApprove, PermPurchaseSend, PermPurchaseReceive,
		PermReorderManage, PermLocationManage,
	}
	a := &RoleAuthorizer{grants: map[string]map[Permission]bool{}}
	a.Grant(RoleOwner, all...)
	a.Grant(RoleAdmin, all...)
	for _, p := range all {
		if p != PermLocationManage {
			a.Grant(RoleManager, p)
		}
	}
	a.Grant(RoleStaff,
		PermInventoryAdjust, PermInventoryCount,
		PermTransferCreate, PermTransferShip, PermTransferReceive,
		PermPurchaseReceive,
	)
	a.Grant(RoleSystem, PermInventoryAdjust)
	return a
}

func (a *RoleAuthorizer) Grant(role string, perms ...Permission) {
	if a.grants[role] == nil {
		a.grants[role] = map[Permission]bool{}
	}
	for _, p := range perms {
		a.grants[role][p] = true
	}
}

func (a *RoleAuthorizer) Authorize(ctx context.Context, perm Permission) error {
	u, ok := FromContext(ctx)
	if !ok {
		return apperror.PermissionDenied("authorize", "no authenticated actor")
	}
	if !a.grants[u.Role][perm] {
		return apperror.PermissionDenied("authorize", "role %q may not %s", u.Role, perm)
	}
	return nil
}

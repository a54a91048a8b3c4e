package domain

// Role роль пользователя, выданная сервисом идентификации
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleSalonAdmin Role = "salon_admin"
	RoleMaster     Role = "master"
	RoleClient     Role = "client"
)

// Principal аутентифицированный пользователь
type Principal struct {
	ID   int64
	Role Role
}

// IsPlatformAdmin returns true for the platform administrator
func (p Principal) IsPlatformAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// SystemPrincipal принципал для действий, инициированных самим сервисом
// (обработка кнопок Telegram, фоновые задачи)
func SystemPrincipal() Principal {
	return Principal{ID: SystemPrincipalID, Role: RoleSuperAdmin}
}

// OwnershipChain цепочка владения ресурсом: салон → мастер → слот → бронирование
type OwnershipChain struct {
	SalonID      int64
	OwnerID      int64
	MasterID     int64
	MasterUserID *int64
}

// IsOwnedBy returns true if the salon owner is the given user
func (c OwnershipChain) IsOwnedBy(userID int64) bool {
	return c.OwnerID == userID
}

// IsMasterAccount returns true if the master of the chain is linked to the given user
func (c OwnershipChain) IsMasterAccount(userID int64) bool {
	return c.MasterUserID != nil && *c.MasterUserID == userID
}

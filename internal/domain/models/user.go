package models

// Role определяет права пользователя
type Role string

const (
	RoleMerchant Role = "merchant"
	RoleAdmin    Role = "admin"
)

// User представляет пользователя (мерчант или администратор)
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	MerchantID string `json:"merchantId,omitempty"` // заполняется только для роли merchant
}

// IsAdmin сообщает, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Principal — пользователь, от имени которого выполняется запрос (из JWT)
type Principal struct {
	UserID     string
	Role       Role
	MerchantID string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccessMerchant: администратор видит всех мерчантов, мерчант только себя
func (p Principal) CanAccessMerchant(merchantID string) bool {
	return p.IsAdmin() || (p.MerchantID != "" && p.MerchantID == merchantID)
}

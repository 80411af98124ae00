package models

import "time"

// UserRole links a user with a granted role. The (user_id, role_id) pair is
// unique and rows are cascade-deleted with either side.
type UserRole struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_user_roles_user_role"`
	RoleID    uint      `gorm:"column:role_id;not null;uniqueIndex:idx_user_roles_user_role"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role      *Role     `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the join table on the conventional name.
func (UserRole) TableName() string {
	return "user_roles"
}

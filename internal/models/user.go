// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Profile *Profile   `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Roles   []UserRole `json:"roles,omitempty" gorm:"foreignKey:UserID"`
	Crops   []Crop     `json:"crops,omitempty" gorm:"foreignKey:FarmerID"`
	Orders  []Order    `json:"orders,omitempty" gorm:"foreignKey:VendorID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// PrimaryRole returns the first role assigned to the user. Accounts carry a
// single role today; the slice leaves room for multi-role accounts later.
func (u *User) PrimaryRole() AppRole {
	if len(u.Roles) == 0 {
		return AppRoleBuyer
	}
	return u.Roles[0].Role
}

package model

import (
	"time"

	"gamasa/shared/constant"
	"gamasa/shared/model"
)

const (
	TableName  = "profiles"
	EntityName = "profile"

	FieldID         = "id"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldRole       = "role"
	FieldFullName   = "full_name"
	FieldPhone      = "phone"
	FieldAvatarURL  = "avatar_url"
	FieldFCMToken   = "fcm_token"
	FieldIsVerified = "is_verified"
	FieldActive     = "active"
	FieldLastLogin  = "last_login"
)

var Roles = []string{constant.RoleUser, constant.RoleOwner, constant.RoleAdmin, constant.RoleSuperAdmin}

type Profile struct {
	ID         string     `db:"id"`
	Email      string     `db:"email"`
	Password   string     `db:"password"`
	Role       string     `db:"role"`
	FullName   string     `db:"full_name"`
	Phone      *string    `db:"phone"`
	AvatarURL  *string    `db:"avatar_url"`
	FCMToken   *string    `db:"fcm_token"`
	IsVerified bool       `db:"is_verified"`
	Active     bool       `db:"active"`
	LastLogin  *time.Time `db:"last_login"`
	model.Metadata
}

func (p Profile) PhoneNumber() string {
	if p.Phone == nil {
		return constant.Empty
	}

	return *p.Phone
}

func (p Profile) DeviceToken() string {
	if p.FCMToken == nil {
		return constant.Empty
	}

	return *p.FCMToken
}

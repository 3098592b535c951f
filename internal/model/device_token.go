package model

import "time"

// DeviceToken identifies one push destination of a user. Token values carry
// an optional platform prefix ("fcm:...", "telegram:..."); the bare value is
// treated as an FCM registration token.
type DeviceToken struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"userId"`
	Token     string    `gorm:"index:idx_user_token,unique" json:"token"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

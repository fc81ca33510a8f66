package entity

import "time"

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	RecoveryHash string    `db:"recovery_hash"`
	FacePhotoURL string    `db:"face_photo_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type UserLoginData struct {
	ID        string
	Username  string
	SessionID string
}

package authRepository

const (
	queryCreateUser = `
INSERT INTO Users (id, username, recovery_hash, face_photo_url, created_at)
VALUES (:id, :username, :recovery_hash, :face_photo_url, :created_at)`

	queryGetById = `
SELECT id, username, recovery_hash, face_photo_url, created_at, updated_at
FROM Users
    WHERE id = :id`

	queryGetByUsername = `
SELECT id, username, recovery_hash, face_photo_url, created_at, updated_at
FROM Users
    WHERE username = :username`

	queryUpdateFacePhoto = `
		UPDATE Users
		SET face_photo_url = :face_photo_url,
			updated_at = :updated_at
		WHERE id = :id`

	queryUpdateRecoveryHash = `
		UPDATE Users
SET recovery_hash = :recovery_hash, updated_at = :updated_at
	WHERE id = :id`

	queryDeleteUser = `
DELETE FROM Users
WHERE id = :id`
)

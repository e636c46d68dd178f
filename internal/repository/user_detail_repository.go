package repository

import (
	"context"
	"database/sql"

	"github.com/guidio/guidio-api/internal/model"
)

type UserDetailRepo struct{ DB *sql.DB }

func NewUserDetailRepo(db *sql.DB) *UserDetailRepo { return &UserDetailRepo{DB: db} }

const detailColumns = "id,user_id,profession_id,bio,is_instructor,avatar,cover_image"

// CreateEmpty provisions the blank profile-detail row every account gets at
// registration time.
func (r *UserDetailRepo) CreateEmpty(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_details (user_id) VALUES (?)", userID)
	return err
}

// GetByUserID fetches the detail record for a user, (nil, nil) when absent.
func (r *UserDetailRepo) GetByUserID(ctx context.Context, userID uint64) (*model.UserDetail, error) {
	var d model.UserDetail
	var professionID sql.NullInt64
	var bio, avatar, cover sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+detailColumns+" FROM user_details WHERE user_id=? LIMIT 1", userID).
		Scan(&d.ID, &d.UserID, &professionID, &bio, &d.IsInstructor, &avatar, &cover)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if professionID.Valid {
		v := uint64(professionID.Int64)
		d.ProfessionID = &v
	}
	d.Bio = bio.String
	d.Avatar = avatar.String
	d.CoverImage = cover.String
	return &d, nil
}

// Update overwrites bio, profession and instructor flag for a user's profile.
// The nullable profession clears when professionID is nil.
func (r *UserDetailRepo) Update(ctx context.Context, userID uint64, bio string, professionID *uint64, isInstructor bool) error {
	var pid interface{}
	if professionID != nil {
		pid = *professionID
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE user_details SET bio=?, profession_id=?, is_instructor=? WHERE user_id=?",
		bio, pid, isInstructor, userID)
	return err
}

// SetAvatar stores the URL path of the user's avatar. Empty clears it.
func (r *UserDetailRepo) SetAvatar(ctx context.Context, userID uint64, url string) error {
	return r.setImage(ctx, "avatar", userID, url)
}

// SetCoverImage stores the URL path of the user's cover image. Empty clears it.
func (r *UserDetailRepo) SetCoverImage(ctx context.Context, userID uint64, url string) error {
	return r.setImage(ctx, "cover_image", userID, url)
}

func (r *UserDetailRepo) setImage(ctx context.Context, column string, userID uint64, url string) error {
	var v interface{}
	if url != "" {
		v = url
	}
	// column is one of two compile-time constants, never user input
	_, err := r.DB.ExecContext(ctx,
		"UPDATE user_details SET "+column+"=? WHERE user_id=?", v, userID)
	return err
}

package postgres

import (
	"time"

	"roit-learning-service/internal/domain"

	"github.com/uptrace/bun"
)

type resultRow struct {
	bun.BaseModel `bun:"table:mcq_test_results,alias:r"`

	ID             string            `bun:"id,pk"`
	UserID         string            `bun:"user_id"`
	Category       string            `bun:"category"`
	Class          int               `bun:"class"`
	Subject        string            `bun:"subject"`
	Chapter        *string           `bun:"chapter"`
	Score          int               `bun:"score"`
	TotalQuestions int               `bun:"total_questions"`
	CorrectAnswers int               `bun:"correct_answers"`
	TimeTaken      int               `bun:"time_taken"`
	Answers        map[string]string `bun:"answers,type:jsonb"`
	CreatedAt      time.Time         `bun:"created_at"`
}

func (r resultRow) toDomain() domain.ResultRecord {
	return domain.ResultRecord{
		ID:             r.ID,
		UserID:         r.UserID,
		Category:       domain.Category(r.Category),
		Class:          r.Class,
		Subject:        r.Subject,
		Chapter:        r.Chapter,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		CorrectAnswers: r.CorrectAnswers,
		TimeTaken:      r.TimeTaken,
		Answers:        r.Answers,
		CreatedAt:      r.CreatedAt,
	}
}

type contentRow struct {
	bun.BaseModel `bun:"table:content,alias:c"`

	ID          string    `bun:"id,pk"`
	Category    string    `bun:"category"`
	Class       int       `bun:"class"`
	Subject     string    `bun:"subject"`
	Chapter     string    `bun:"chapter"`
	Title       string    `bun:"title"`
	Description string    `bun:"description,nullzero"`
	FileURL     string    `bun:"file_url"`
	FileType    string    `bun:"file_type"`
	FileSize    int64     `bun:"file_size,nullzero"`
	UploadedBy  string    `bun:"uploaded_by"`
	CreatedAt   time.Time `bun:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at"`
}

func newContentRow(c domain.Content) contentRow {
	return contentRow{
		ID:          c.ID,
		Category:    string(c.Category),
		Class:       c.Class,
		Subject:     c.Subject,
		Chapter:     c.Chapter,
		Title:       c.Title,
		Description: c.Description,
		FileURL:     c.FileURL,
		FileType:    c.FileType,
		FileSize:    c.FileSize,
		UploadedBy:  c.UploadedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r contentRow) toDomain() domain.Content {
	return domain.Content{
		ID:          r.ID,
		Category:    domain.Category(r.Category),
		Class:       r.Class,
		Subject:     r.Subject,
		Chapter:     r.Chapter,
		Title:       r.Title,
		Description: r.Description,
		FileURL:     r.FileURL,
		FileType:    r.FileType,
		FileSize:    r.FileSize,
		UploadedBy:  r.UploadedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type viewRow struct {
	bun.BaseModel `bun:"table:recently_viewed,alias:v"`

	ID        string      `bun:"id,pk"`
	UserID    string      `bun:"user_id"`
	ContentID string      `bun:"content_id"`
	ViewedAt  time.Time   `bun:"viewed_at"`
	Content   *contentRow `bun:"rel:belongs-to,join:content_id=id"`
}

type downloadRow struct {
	bun.BaseModel `bun:"table:downloads,alias:d"`

	ID           string      `bun:"id,pk"`
	UserID       string      `bun:"user_id"`
	ContentID    string      `bun:"content_id"`
	DownloadedAt time.Time   `bun:"downloaded_at"`
	Content      *contentRow `bun:"rel:belongs-to,join:content_id=id"`
}

type profileRow struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID              string    `bun:"id,pk"`
	Email           string    `bun:"email"`
	FullName        string    `bun:"full_name,nullzero"`
	Phone           string    `bun:"phone,nullzero"`
	ProfilePhotoURL string    `bun:"profile_photo_url,nullzero"`
	StudentClass    string    `bun:"student_class,nullzero"`
	SchoolName      string    `bun:"school_name,nullzero"`
	City            string    `bun:"city,nullzero"`
	Pincode         string    `bun:"pincode,nullzero"`
	Role            string    `bun:"role"`
	CreatedAt       time.Time `bun:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at"`
}

func (r profileRow) toDomain() domain.Profile {
	return domain.Profile{
		ID:              r.ID,
		Email:           r.Email,
		FullName:        r.FullName,
		Phone:           r.Phone,
		ProfilePhotoURL: r.ProfilePhotoURL,
		StudentClass:    r.StudentClass,
		SchoolName:      r.SchoolName,
		City:            r.City,
		Pincode:         r.Pincode,
		Role:            domain.UserRole(r.Role),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type notificationRow struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        string         `bun:"id,pk"`
	Title     string         `bun:"title"`
	Message   string         `bun:"message"`
	Type      string         `bun:"type"`
	Metadata  map[string]any `bun:"metadata,type:jsonb"`
	SentBy    string         `bun:"sent_by,nullzero"`
	CreatedAt time.Time      `bun:"created_at"`
}

func (r notificationRow) toDomain() domain.Notification {
	return domain.Notification{
		ID:        r.ID,
		Title:     r.Title,
		Message:   r.Message,
		Type:      domain.NotificationType(r.Type),
		Metadata:  r.Metadata,
		SentBy:    r.SentBy,
		CreatedAt: r.CreatedAt,
	}
}

type userNotificationRow struct {
	bun.BaseModel `bun:"table:user_notifications,alias:un"`

	ID             string           `bun:"id,pk"`
	UserID         string           `bun:"user_id"`
	NotificationID string           `bun:"notification_id"`
	Read           bool             `bun:"read"`
	CreatedAt      time.Time        `bun:"created_at"`
	Notification   *notificationRow `bun:"rel:belongs-to,join:notification_id=id"`
}

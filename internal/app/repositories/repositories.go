package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the query surface shared by a pool and a transaction. Student-
// scoped repositories are written against it so a mutation can run inside an
// owner-pinned transaction (db.WithOwner) and have the store's row policies
// apply to it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories is the container for all repositories
type Repositories struct {
	AccountRepository     *AccountRepository
	ProfileRepository     *ProfileRepository
	StudentRepository     *StudentRepository
	CourseRepository      *CourseRepository
	ApplicationRepository *ApplicationRepository
	AttachmentRepository  *AttachmentRepository
	ActivityLogRepository *ActivityLogRepository
	InviteTokenRepository *InviteTokenRepository
}

// NewRepositories creates the repository container over the regular pool.
// The elevated pool is held only by the invite service, not here.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AccountRepository:     NewAccountRepository(db),
		ProfileRepository:     NewProfileRepository(db),
		StudentRepository:     NewStudentRepository(db),
		CourseRepository:      NewCourseRepository(db),
		ApplicationRepository: NewApplicationRepository(db),
		AttachmentRepository:  NewAttachmentRepository(db),
		ActivityLogRepository: NewActivityLogRepository(db),
		InviteTokenRepository: NewInviteTokenRepository(db),
	}
}

package repository

import (
	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repositories struct {
	Notice     NoticeRepository
	AuditEvent AuditEventRepository
}

// NewRepositories wires the Postgres stores. The audit store is left nil
// when no Mongo database is configured.
func NewRepositories(db *sqlx.DB, mongoDB *mongo.Database) *Repositories {
	repos := &Repositories{
		Notice: NewNoticeRepository(db),
	}
	if mongoDB != nil {
		repos.AuditEvent = NewAuditEventRepository(mongoDB)
	}
	return repos
}

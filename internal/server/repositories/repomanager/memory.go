package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/soupauth/internal/dbx"
	"github.com/dmitrijs2005/soupauth/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out one process-local users store. The DBTX
// argument is ignored.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

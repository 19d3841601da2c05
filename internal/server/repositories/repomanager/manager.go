package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/autodealer/internal/dbx"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/bookings"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/cars"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/sellrequests"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Cars(db dbx.DBTX) cars.Repository
	Bookings(db dbx.DBTX) bookings.Repository
	SellRequests(db dbx.DBTX) sellrequests.Repository
}

package sql

import (
	"context"
	"fmt"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/repository"
	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/clock"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

// SQLSiteDirectory implements repository.SiteDirectory on the sites table.
type SQLSiteDirectory struct {
	clock clock.Clock
}

// NewSQLSiteDirectory creates a new SQLSiteDirectory.
func NewSQLSiteDirectory(c clock.Clock) *SQLSiteDirectory {
	return &SQLSiteDirectory{clock: c}
}

var _ repository.SiteDirectory = (*SQLSiteDirectory)(nil)

func (r *SQLSiteDirectory) FindByClientSiteName(ctx context.Context, s tx.Session, clientName, clientSiteName string) (*model.Site, error) {
	const op = "SQLSiteDirectory.FindByClientSiteName"

	var found []SiteEntity
	err := s.ExecuteQuery(ctx, &found, map[string]interface{}{"client_site_name": clientSiteName}, "created_utc", 1)
	if err != nil {
		return nil, exception.NewSolarError(op, fmt.Sprintf("failed to look up site '%s'", clientSiteName), err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: client site name '%s'", repository.ErrSiteNotFound, clientSiteName)
	}
	logger.Debugf("Found site '%s' (%s) for client '%s'.", clientSiteName, found[0].LocationUUID, clientName)
	return toDomainSite(&found[0]), nil
}

func (r *SQLSiteDirectory) Create(ctx context.Context, s tx.Session, params model.SiteCreateParams) (*model.Site, error) {
	const op = "SQLSiteDirectory.Create"

	entity := newSiteEntity(params, r.clock.Now())
	if _, err := s.ExecuteUpdate(ctx, entity, tx.OpCreate, entity.TableName(), nil); err != nil {
		return nil, exception.NewSolarError(op, fmt.Sprintf("failed to create site '%s'", params.ClientSiteName), err)
	}
	return toDomainSite(entity), nil
}

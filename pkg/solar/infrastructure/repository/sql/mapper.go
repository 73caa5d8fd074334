package sql

import (
	"time"

	"github.com/google/uuid"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
)

func toDomainSite(e *SiteEntity) *model.Site {
	if e == nil {
		return nil
	}
	return &model.Site{
		LocationUUID:   e.LocationUUID,
		ClientSiteID:   e.ClientSiteID,
		ClientSiteName: e.ClientSiteName,
		Country:        e.Country,
		Latitude:       e.Latitude,
		Longitude:      e.Longitude,
		CapacityKW:     e.CapacityKW,
		DNO:            e.DNO,
		GSP:            e.GSP,
		CreatedUTC:     e.CreatedUTC,
	}
}

func newSiteEntity(p model.SiteCreateParams, now time.Time) *SiteEntity {
	return &SiteEntity{
		LocationUUID:   uuid.New(),
		ClientSiteID:   p.ClientSiteID,
		ClientSiteName: p.ClientSiteName,
		Country:        p.Country,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		CapacityKW:     p.CapacityKW,
		DNO:            p.DNO,
		GSP:            p.GSP,
		CreatedUTC:     now.UTC(),
	}
}

func newGenerationEntities(rows []model.GenerationRecord, now time.Time) []GenerationEntity {
	out := make([]GenerationEntity, len(rows))
	for i, r := range rows {
		out[i] = GenerationEntity{
			GenerationUUID:    uuid.New(),
			SiteUUID:          r.SiteUUID,
			GenerationPowerKW: r.PowerKW,
			StartUTC:          r.StartUTC.UTC(),
			CreatedUTC:        now.UTC(),
		}
	}
	return out
}

func newForecastValueEntities(rows []model.ForecastRecord, forecastUUID, modelUUID uuid.UUID, now time.Time) []ForecastValueEntity {
	out := make([]ForecastValueEntity, len(rows))
	for i, r := range rows {
		out[i] = ForecastValueEntity{
			ForecastValueUUID: uuid.New(),
			ForecastUUID:      forecastUUID,
			MLModelUUID:       modelUUID,
			StartUTC:          r.StartUTC.UTC(),
			EndUTC:            r.EndUTC.UTC(),
			ForecastPowerKW:   r.ForecastPowerKW,
			HorizonMinutes:    r.HorizonMinutes,
			CreatedUTC:        now.UTC(),
		}
	}
	return out
}

func newNationalForecastEntities(f *model.Forecast) (*NationalForecastEntity, []NationalForecastValueEntity) {
	head := &NationalForecastEntity{
		ID:                      uuid.New(),
		LocationName:            f.LocationName,
		ModelName:               f.ModelName,
		ModelVersion:            f.ModelVersion,
		ForecastCreationTime:    f.CreatedUTC.UTC(),
		InputDataLastUpdatedUTC: f.InputDataLastUpdatedUTC.UTC(),
		Historic:                f.Historic,
	}
	values := make([]NationalForecastValueEntity, len(f.Values))
	for i, v := range f.Values {
		values[i] = NationalForecastValueEntity{
			ID:                        uuid.New(),
			ForecastID:                head.ID,
			TargetTime:                v.TargetTimeUTC.UTC(),
			ExpectedPowerGenerationMW: v.ExpectedPowerGenerationMW,
		}
	}
	return head, values
}

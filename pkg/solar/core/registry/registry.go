// Package registry holds the fixed table of sites solarsink writes to.
package registry

import "github.com/tigerroll/solarsink/pkg/solar/core/domain/model"

// Country codes accepted by the persister.
const (
	CountryNL = "nl"
	CountryDE = "de"
)

// DefaultCapacityKW is used for sites without a country specific capacity.
const DefaultCapacityKW = 20_000_000

// NationalSiteName is the client site name of the NL national site.
const NationalSiteName = "nl_national"

// TSO is a German transmission system operator zone.
type TSO struct {
	Site model.SiteDescriptor
	// CapacityKW is the installed solar capacity in the zone.
	CapacityKW float64
	// EIC is the ENTSO-E control area code the DE feeds tag rows with.
	EIC string
}

// Registry is an immutable site table. Build it once with Default and share it.
type Registry struct {
	national model.SiteDescriptor
	tsos     []TSO
}

// Default returns the production registry.
// Coordinates point roughly at each operator's headquarters; capacities are
// 50Hertz 2022 reporting and OPSD 2020 figures for the others.
func Default() *Registry {
	return &Registry{
		national: model.SiteDescriptor{ClientSiteName: NationalSiteName, Latitude: 52.15, Longitude: 5.23},
		tsos: []TSO{
			{Site: model.SiteDescriptor{ClientSiteName: "TransnetBW", Latitude: 48.78, Longitude: 9.18}, CapacityKW: 10_770_000, EIC: "10YDE-ENBW-----N"},
			{Site: model.SiteDescriptor{ClientSiteName: "50Hertz", Latitude: 52.53, Longitude: 13.37}, CapacityKW: 18_175_000, EIC: "10YDE-VE-------2"},
			{Site: model.SiteDescriptor{ClientSiteName: "TenneT", Latitude: 52.38, Longitude: 5.17}, CapacityKW: 21_882_000, EIC: "10YDE-EON------1"},
			{Site: model.SiteDescriptor{ClientSiteName: "Amprion", Latitude: 51.52, Longitude: 7.45}, CapacityKW: 16_506_000, EIC: "10YDE-RWENET---I"},
		},
	}
}

// National returns the NL national site.
func (r *Registry) National() model.SiteDescriptor {
	return r.national
}

// TSOs returns the German zones in processing order.
func (r *Registry) TSOs() []TSO {
	out := make([]TSO, len(r.tsos))
	copy(out, r.tsos)
	return out
}

// MatchTSO returns the zone whose name or EIC code equals tag.
func (r *Registry) MatchTSO(tag string) (TSO, bool) {
	for _, t := range r.tsos {
		if t.Site.ClientSiteName == tag || t.EIC == tag {
			return t, true
		}
	}
	return TSO{}, false
}

// CapacityKW returns the table capacity for a site: per TSO for "de", DefaultCapacityKW otherwise.
func (r *Registry) CapacityKW(country, clientSiteName string) float64 {
	if country == CountryDE {
		for _, t := range r.tsos {
			if t.Site.ClientSiteName == clientSiteName {
				return t.CapacityKW
			}
		}
	}
	return DefaultCapacityKW
}

package catalog

import "github.com/grocerylens/backend/internal/domain"

type builtinEntry struct {
	code, name, address string
	lat, lon            float64
}

// Greater Montreal chains. Several entries share a code when a chain has
// more than one location.
var builtinEntries = []builtinEntry{
	{"IGA", "IGA Extra Marché Lambert", "1350 Rue Sherbrooke E, Montréal", 45.5236, -73.5670},
	{"IGA", "IGA Marché Duchemin", "5255 Av. du Parc, Montréal", 45.5230, -73.5995},
	{"IGA", "IGA Extra Famille Arena", "7150 Boul. Newman, LaSalle", 45.4390, -73.6060},
	{"Metro", "Metro Plus Plateau", "1955 Av. du Mont-Royal E, Montréal", 45.5360, -73.5710},
	{"Metro", "Metro Atwater", "1455 Av. Atwater, Montréal", 45.4910, -73.5870},
	{"Maxi", "Maxi", "2925 Rue Rachel E, Montréal", 45.5430, -73.5690},
	{"Maxi", "Maxi & Cie", "7075 Boul. Newman, LaSalle", 45.4400, -73.6050},
	{"SuperC", "Super C", "147 Rue Ontario E, Montréal", 45.5140, -73.5640},
	{"Provigo", "Provigo Le Marché", "3421 Av. du Parc, Montréal", 45.5100, -73.5780},
	{"Walmart", "Walmart Supercentre", "7445 Boul. Langelier, Saint-Léonard", 45.5850, -73.5800},
	{"Costco", "Costco Marché Central", "1015 Rue du Marché-Central, Montréal", 45.5330, -73.6530},
	{"Adonis", "Marché Adonis", "2001 Rue Sauvé O, Montréal", 45.5400, -73.6770},
	{"Loblaws", "Loblaws Maisonneuve", "4705 Rue Saint-Denis, Montréal", 45.5270, -73.5850},
}

// BuiltinStores returns the catalog used when no remote catalog is reachable.
// Each call returns fresh values so callers may mutate them.
func BuiltinStores() []domain.Store {
	stores := make([]domain.Store, 0, len(builtinEntries))
	for _, e := range builtinEntries {
		lat, lon := e.lat, e.lon
		stores = append(stores, domain.Store{
			Code:    e.code,
			Name:    e.name,
			Address: e.address,
			Lat:     &lat,
			Lon:     &lon,
		})
	}
	return stores
}

package registry

import (
	"encoding/json"
	"strings"

	"clinect-backend/domain/trial"
)

// studyPayload mirrors the subset of the registry's study document that we
// flatten into a trial record. The full payload is kept verbatim in Raw.
type studyPayload struct {
	ProtocolSection struct {
		IdentificationModule struct {
			NCTID      string `json:"nctId"`
			BriefTitle string `json:"briefTitle"`
		} `json:"identificationModule"`
		StatusModule struct {
			OverallStatus string `json:"overallStatus"`
		} `json:"statusModule"`
		DesignModule struct {
			Phases []string `json:"phases"`
		} `json:"designModule"`
		ConditionsModule struct {
			Conditions []string `json:"conditions"`
		} `json:"conditionsModule"`
		ContactsLocationsModule struct {
			Locations []struct {
				City    string `json:"city"`
				State   string `json:"state"`
				Country string `json:"country"`
			} `json:"locations"`
		} `json:"contactsLocationsModule"`
	} `json:"protocolSection"`
}

// ParseStudy flattens one registry study document into a trial record. It
// returns nil when the document carries no NCT id or does not parse.
func ParseStudy(raw json.RawMessage) *trial.Record {
	var payload studyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	ps := payload.ProtocolSection
	if ps.IdentificationModule.NCTID == "" {
		return nil
	}

	locations := make([]string, 0, len(ps.ContactsLocationsModule.Locations))
	seen := make(map[string]struct{})
	for _, loc := range ps.ContactsLocationsModule.Locations {
		name := formatLocation(loc.City, loc.State, loc.Country)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		locations = append(locations, name)
	}

	return &trial.Record{
		NCTID:      ps.IdentificationModule.NCTID,
		Title:      ps.IdentificationModule.BriefTitle,
		Status:     ps.StatusModule.OverallStatus,
		Phase:      ps.DesignModule.Phases,
		Conditions: ps.ConditionsModule.Conditions,
		Locations:  locations,
		Raw:        raw,
	}
}

// formatLocation renders a site as "City, State", falling back to the
// country when no state is given.
func formatLocation(city, state, country string) string {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	country = strings.TrimSpace(country)

	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return ""
	}
}

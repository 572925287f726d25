package ledger

import (
	"strings"

	"mfgledger/models"
)

// FindByCode matches a login code against agent codes, ignoring case and
// surrounding spaces. The first match wins.
func FindByCode(agents []models.Agent, code string) (models.Agent, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return models.Agent{}, false
	}
	for _, a := range agents {
		if a.Code != "" && strings.ToLower(strings.TrimSpace(a.Code)) == code {
			return a, true
		}
	}
	return models.Agent{}, false
}

// DuplicateCodes groups agent ids by code for every code used more than once.
func DuplicateCodes(agents []models.Agent) map[string][]string {
	byCode := make(map[string][]string)
	for _, a := range agents {
		if a.Code == "" {
			continue
		}
		c := strings.ToLower(strings.TrimSpace(a.Code))
		byCode[c] = append(byCode[c], a.ID)
	}
	for c, ids := range byCode {
		if len(ids) < 2 {
			delete(byCode, c)
		}
	}
	return byCode
}

package credential

import (
	"context"

	"mfgledger/config"
	"mfgledger/ledger"
	"mfgledger/models"
	"mfgledger/store"
)

// StoreDirectory reads the partner collection straight from the store. Older
// deployments keep partners under a capitalised collection name, which is read when
// the current one is empty.
type StoreDirectory struct {
	Store store.Store
}

func (d StoreDirectory) FetchAgents(ctx context.Context) ([]models.Agent, error) {
	docs, err := d.Store.GetAll(ctx, config.AgentCollection)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		docs, err = d.Store.GetAll(ctx, config.LegacyAgentCollection)
		if err != nil {
			return nil, err
		}
	}
	return ledger.NormalizeAgents(docs), nil
}

func matchCode(agents []models.Agent, code string) (models.Agent, bool) {
	return ledger.FindByCode(agents, code)
}

package ledger

import (
	"mfgledger/models"
	"mfgledger/store"
)

// CompanyFromDocument reads settings_company/main. Fields that are absent keep
// their default values.
func CompanyFromDocument(doc store.Document) models.Company {
	c := models.DefaultCompany()
	setString := func(dst *string, key string) {
		if _, ok := doc[key]; ok {
			*dst = str(doc[key])
		}
	}
	setString(&c.Name, "name")
	setString(&c.Subname, "subname")
	setString(&c.Address, "address")
	setString(&c.Phone, "phone")
	setString(&c.Owner, "owner")
	setString(&c.AdminPin, "adminPin")
	setString(&c.KopSurat, "kopSurat")
	setString(&c.Logo, "logo")

	if raw, ok := doc["banks"].([]interface{}); ok {
		c.Banks = make([]models.Bank, 0, len(raw))
		for _, item := range raw {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			c.Banks = append(c.Banks, models.Bank{Name: str(m["name"]), Number: str(m["number"])})
		}
	}
	return c
}

func CompanyDocument(c models.Company) store.Document {
	banks := make([]interface{}, 0, len(c.Banks))
	for _, b := range c.Banks {
		banks = append(banks, map[string]interface{}{"name": b.Name, "number": b.Number})
	}
	return store.Document{
		"name":     c.Name,
		"subname":  c.Subname,
		"address":  c.Address,
		"phone":    c.Phone,
		"banks":    banks,
		"owner":    c.Owner,
		"adminPin": c.AdminPin,
		"kopSurat": c.KopSurat,
		"logo":     c.Logo,
	}
}

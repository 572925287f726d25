package models

type Bank struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Company is the invoice header stored in settings_company/main.
type Company struct {
	Name     string `json:"name"`
	Subname  string `json:"subname"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Banks    []Bank `json:"banks"`
	Owner    string `json:"owner"`
	AdminPin string `json:"adminPin,omitempty"`
	KopSurat string `json:"kopSurat,omitempty"`
	Logo     string `json:"logo,omitempty"`
}

// Public strips what must not leave the admin area.
func (c Company) Public() Company {
	c.AdminPin = ""
	return c
}

func DefaultCompany() Company {
	return Company{
		Name:    "CV. MALANG FLORIST GROUP",
		Subname: "Flower Service & Decoration",
		Address: "Jl. Candi Bajang Ratu 1 Selatan No 16B, Malang",
		Phone:   "0822-4444-7883",
		Banks: []Bank{
			{Name: "BCA", Number: "8161100846"},
			{Name: "MANDIRI", Number: "144-00-1901971-7"},
			{Name: "BRI", Number: "0051-01-208464-50-8"},
		},
		Owner: "M. SYAFRIAN YULIANTO",
	}
}

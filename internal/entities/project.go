package entities

// Project is a portfolio entry shown on the works page and managed from the admin panel.
type Project struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	TitleSimple  string   `json:"titleSimple"`
	Description  string   `json:"description"`
	Description2 string   `json:"description2"`
	Description3 string   `json:"description3"`
	Details      string   `json:"details"`
	Technologies []string `json:"technologies"`
	Date         string   `json:"date"`
	Categorie    []string `json:"categorie"`
	Image        string   `json:"image"`
	ImageSimple  string   `json:"imageSimple"`
	Images       []string `json:"images"`
	Type         string   `json:"type"`
	Vue          string   `json:"vue"`
}

// ProjectUpdate carries a partial update; nil fields are left untouched.
type ProjectUpdate struct {
	Title        *string   `json:"title"`
	TitleSimple  *string   `json:"titleSimple"`
	Description  *string   `json:"description"`
	Description2 *string   `json:"description2"`
	Description3 *string   `json:"description3"`
	Details      *string   `json:"details"`
	Technologies *[]string `json:"technologies"`
	Date         *string   `json:"date"`
	Categorie    *[]string `json:"categorie"`
	Image        *string   `json:"image"`
	ImageSimple  *string   `json:"imageSimple"`
	Images       *[]string `json:"images"`
	Type         *string   `json:"type"`
	Vue          *string   `json:"vue"`
}

// Apply copies every provided field onto p.
func (u ProjectUpdate) Apply(p *Project) {
	setString(&p.Title, u.Title)
	setString(&p.TitleSimple, u.TitleSimple)
	setString(&p.Description, u.Description)
	setString(&p.Description2, u.Description2)
	setString(&p.Description3, u.Description3)
	setString(&p.Details, u.Details)
	setString(&p.Date, u.Date)
	setString(&p.Image, u.Image)
	setString(&p.ImageSimple, u.ImageSimple)
	setString(&p.Type, u.Type)
	setString(&p.Vue, u.Vue)
	setList(&p.Technologies, u.Technologies)
	setList(&p.Categorie, u.Categorie)
	setList(&p.Images, u.Images)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *[]string, v *[]string) {
	if v != nil {
		*dst = append([]string(nil), (*v)...)
	}
}

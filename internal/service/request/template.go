package request

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/motoshop/directory-api/internal/model"
)

// Absent optional fields (preferred date, phone) are dropped entirely;
// the rendered text must never contain placeholder junk.
var bodyTemplate = template.Must(template.New("outreach").Parse(
	`Hello {{.ShopName}},

I would like to request a quote for {{.ServiceLabel}} on my {{.Bike}}.
{{- if .Description}}

Details: {{.Description}}
{{- end}}

I am looking to have this done {{.UrgencyPhrase}}.
{{- if .PreferredDate}}
Preferred date: {{.PreferredDate}}
{{- end}}

Could you let me know your availability and a cost estimate?

Thanks,
{{.UserName}}
{{.UserEmail}}
{{- if .UserPhone}}
{{.UserPhone}}
{{- end}}
`))

type templateData struct {
	ShopName      string
	ServiceLabel  string
	Bike          string
	Description   string
	UrgencyPhrase string
	PreferredDate string
	UserName      string
	UserEmail     string
	UserPhone     string
}

func buildArtifact(shop *model.Shop, user *model.User, bike *model.Bike, in *ComposeInput) (EmailArtifact, error) {
	subject := fmt.Sprintf("Service request: %s", in.Category.Label())
	if in.Urgency == model.UrgencyImmediate {
		subject = "[URGENT] " + subject
	}

	data := templateData{
		ShopName:      shop.Name,
		ServiceLabel:  strings.ToLower(in.Category.Label()),
		Bike:          bike.Identification(),
		Description:   in.Description,
		UrgencyPhrase: in.Urgency.Phrase(),
		UserName:      user.Name,
		UserEmail:     user.Email,
		UserPhone:     user.Phone,
	}
	if in.PreferredDate != nil {
		data.PreferredDate = in.PreferredDate.Format("Monday, 2 January 2006")
	}

	var body strings.Builder
	if err := bodyTemplate.Execute(&body, data); err != nil {
		return EmailArtifact{}, err
	}

	return EmailArtifact{
		ShopID:   shop.ID,
		ShopName: shop.Name,
		To:       *shop.Email,
		Subject:  subject,
		Body:     body.String(),
	}, nil
}

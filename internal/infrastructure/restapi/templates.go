package restapi

import (
	"embed"
	"html/template"

	"nft_marketplace/internal/domain/entity"
	"nft_marketplace/internal/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// loadTemplates parses the HTML views. Addresses are shortened only here, at render time.
func loadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"truncate": utils.TruncateAddress,
		"tokenPath": func(contract, tokenID string) string {
			return entity.TokenRoute{ContractAddress: contract, TokenID: tokenID}.Path()
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

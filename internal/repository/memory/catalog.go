package memory

import (
	"sort"
	"strings"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/config"
)

// Catalog is the read-only company list loaded from config.
type Catalog struct {
	byChoice map[int]models.Company
	bySymbol map[string]models.Company
	list     []models.Company
}

func NewCatalog(companies []config.Company) *Catalog {
	c := &Catalog{
		byChoice: make(map[int]models.Company, len(companies)),
		bySymbol: make(map[string]models.Company, len(companies)),
	}
	for _, co := range companies {
		m := models.Company{
			Choice: co.Choice,
			Symbol: strings.ToUpper(co.Symbol),
			Name:   co.Name,
			Source: co.Source,
		}
		c.byChoice[m.Choice] = m
		c.bySymbol[m.Symbol] = m
		c.list = append(c.list, m)
	}
	sort.Slice(c.list, func(i, j int) bool { return c.list[i].Choice < c.list[j].Choice })
	return c
}

// List returns the companies ordered by menu choice.
func (c *Catalog) List() []models.Company {
	return append([]models.Company(nil), c.list...)
}

func (c *Catalog) ByChoice(choice int) (models.Company, bool) {
	co, ok := c.byChoice[choice]
	return co, ok
}

// BySymbol matches case-insensitively.
func (c *Catalog) BySymbol(symbol string) (models.Company, bool) {
	co, ok := c.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return co, ok
}

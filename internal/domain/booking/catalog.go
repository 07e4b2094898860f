package booking

import (
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// NoPreference is the barber value meaning "any barber will do".
const NoPreference = "Sem preferência"

type Service struct {
	Name  string `json:"name"`
	Price int    `json:"price"`

	Haircut  bool `json:"haircut"`
	Beard    bool `json:"beard"`
	Visagism bool `json:"visagism"`
	Quick    bool `json:"quick"`
	// QuickCompatible services may share a slot already held by the quick service.
	QuickCompatible bool `json:"quick_compatible"`
}

type Catalog struct {
	services       []Service
	byName         map[string]Service
	barbers        []string
	visagismBarber string
}

func NewCatalog(services []Service, barbers []string, visagismBarber string) *Catalog {
	c := &Catalog{
		services:       services,
		byName:         make(map[string]Service, len(services)),
		barbers:        barbers,
		visagismBarber: visagismBarber,
	}
	for _, s := range services {
		c.byName[s.Name] = s
	}
	return c
}

func DefaultCatalog() *Catalog {
	return NewCatalog(
		[]Service{
			{Name: "Tradicional", Price: 15, Haircut: true, QuickCompatible: true},
			{Name: "Social", Price: 18, Haircut: true, QuickCompatible: true},
			{Name: "Degradê", Price: 23, Haircut: true},
			{Name: "Pezim", Price: 7, Quick: true, QuickCompatible: true},
			{Name: "Navalhado", Price: 25, Haircut: true},
			{Name: "Barba", Price: 15, Beard: true, QuickCompatible: true},
			{Name: "Abordagem de visagismo", Price: 45, Visagism: true},
			{Name: "Consultoria de visagismo", Price: 65, Visagism: true},
		},
		[]string{"Lucas Borges", "Aluizio"},
		"Lucas Borges",
	)
}

func (c *Catalog) Services() []Service {
	return c.services
}

func (c *Catalog) Lookup(name string) (Service, bool) {
	s, ok := c.byName[name]
	return s, ok
}

func (c *Catalog) Barbers() []string {
	return c.barbers
}

func (c *Catalog) IsBarber(name string) bool {
	for _, b := range c.barbers {
		if b == name {
			return true
		}
	}
	return false
}

func (c *Catalog) VisagismBarber() string {
	return c.visagismBarber
}

// Normalize trims names, drops duplicates and rejects unknown services.
func (c *Catalog) Normalize(services []string) ([]string, error) {
	seen := make(map[string]bool, len(services))
	out := make([]string, 0, len(services))
	for _, raw := range services {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		if _, ok := c.byName[name]; !ok {
			return nil, httperr.ErrValidation("unknown_service")
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, httperr.ErrValidation("missing_fields")
	}
	return out, nil
}

// IsQuickOnly reports whether services is exactly the quick service.
func (c *Catalog) IsQuickOnly(services []string) bool {
	if len(services) != 1 {
		return false
	}
	s, ok := c.byName[services[0]]
	return ok && s.Quick
}

func (c *Catalog) HasQuick(services []string) bool {
	return c.any(services, func(s Service) bool { return s.Quick })
}

func (c *Catalog) HasVisagism(services []string) bool {
	return c.any(services, func(s Service) bool { return s.Visagism })
}

// IsCombo reports a haircut-class service together with a beard service; such a
// booking also consumes the following slot.
func (c *Catalog) IsCombo(services []string) bool {
	return c.any(services, func(s Service) bool { return s.Haircut }) &&
		c.any(services, func(s Service) bool { return s.Beard })
}

// AllQuickCompatible reports whether every service may share a quick-service slot.
func (c *Catalog) AllQuickCompatible(services []string) bool {
	for _, name := range services {
		s, ok := c.byName[name]
		if !ok || !s.QuickCompatible {
			return false
		}
	}
	return true
}

func (c *Catalog) Total(services []string) int {
	total := 0
	for _, name := range services {
		total += c.byName[name].Price
	}
	return total
}

func (c *Catalog) any(services []string, pred func(Service) bool) bool {
	for _, name := range services {
		if s, ok := c.byName[name]; ok && pred(s) {
			return true
		}
	}
	return false
}

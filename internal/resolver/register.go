package resolver

import (
	"filetime/internal/content"
	"filetime/internal/models"
)

// Register subscribes r to content initialization on p.
func Register(p *content.Pipeline, r *Resolver) {
	p.OnContentInit(func(doc *models.Document) error {
		_, err := r.Resolve(doc)
		return err
	})
}

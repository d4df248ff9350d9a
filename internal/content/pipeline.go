package content

import (
	"fmt"

	"filetime/internal/models"

	"go.uber.org/zap"
)

// InitFunc is called once for every document right after it is built.
type InitFunc func(doc *models.Document) error

// Pipeline hands documents to the functions subscribed to content
// initialization, one document at a time.
type Pipeline struct {
	onInit []InitFunc
	logger *zap.Logger
}

func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// OnContentInit subscribes fn. Subscribers run in the order they were added.
func (p *Pipeline) OnContentInit(fn InitFunc) {
	p.onInit = append(p.onInit, fn)
}

// Init notifies every subscriber about doc and stops at the first error.
func (p *Pipeline) Init(doc *models.Document) error {
	for _, fn := range p.onInit {
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

// Run initializes docs in order. The first failing document aborts the run.
func (p *Pipeline) Run(docs []*models.Document) error {
	for _, doc := range docs {
		p.logger.Debug("Initializing content", zap.String("path", doc.SourcePath))
		if err := p.Init(doc); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", doc.SourcePath, err)
		}
	}
	return nil
}

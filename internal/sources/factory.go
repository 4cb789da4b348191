package sources

import (
	"fmt"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/httpclient"
)

// defaultSourceHandlerFactory is the default implementation of SourceHandlerFactory
type defaultSourceHandlerFactory struct {
	api *APISourceHandler
}

var _ SourceHandlerFactory = (*defaultSourceHandlerFactory)(nil)

// NewSourceHandlerFactory creates a new source handler factory. API handlers share
// one HTTP client configured from the upstream section.
func NewSourceHandlerFactory(cfg *config.Config) SourceHandlerFactory {
	var headers map[string]string
	if cfg.Upstream != nil {
		headers = cfg.Upstream.Headers
	}
	client := httpclient.NewDefaultClient(cfg.GetUpstreamTimeout(), httpclient.WithHeaders(headers))
	return NewSourceHandlerFactoryWithClient(client, cfg.Upstream)
}

// NewSourceHandlerFactoryWithClient creates a factory whose API handlers use the given client
func NewSourceHandlerFactoryWithClient(client httpclient.Client, upstream *config.UpstreamConfig) SourceHandlerFactory {
	return &defaultSourceHandlerFactory{
		api: NewAPISourceHandler(client, upstream),
	}
}

// CreateHandler creates a source handler for the given source type
func (f *defaultSourceHandlerFactory) CreateHandler(sourceType string) (SourceHandler, error) {
	switch sourceType {
	case config.SourceTypeAPI:
		return f.api, nil
	case config.SourceTypeFile:
		return NewFileSourceHandler(), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

// CreateWriter creates a writer for the given source type. File sources are read-only.
func (f *defaultSourceHandlerFactory) CreateWriter(sourceType string) (SourceWriter, error) {
	switch sourceType {
	case config.SourceTypeAPI:
		return NewAPISourceWriter(f.api), nil
	case config.SourceTypeFile:
		return NewReadOnlyWriter(), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

package expertsystem

import (
	"log/slog"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/xml"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/yaml"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/registry"
)

// NewFileLoader returns a Loader that picks the format from the file extension:
// .xml for the XML format, .yaml, .yml and .json for the YAML format.
func NewFileLoader(logger *slog.Logger) *registry.Registry {
	r := registry.NewRegistry()
	r.Register(xml.New(xml.WithLogger(logger)), ".xml")
	r.Register(yaml.New(yaml.WithLogger(logger)), ".yaml", ".yml", ".json")
	return r
}

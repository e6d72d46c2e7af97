// Package yaml loads expert systems from YAML (or JSON) documents:
//
//	name: Headache
//	nodes:
//	  - {type: question, id: 1, data: "headache?"}
//	  - {type: answer, id: 2, data: "see a doctor"}
//	connections:
//	  - {src: 1, dst: 2, predicat: 1}
//	  - {src: 1, dst: 3, any_of: [0, 2]}
//	  - {src: 1, dst: 4, min: 3, max: 10}
//
// Records are decoded one by one, so a malformed record is logged and skipped
// without affecting the rest of the document.
package yaml

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

type document struct {
	Name        *string `yaml:"name"`
	Nodes       *[]any  `yaml:"nodes"`
	Connections *[]any  `yaml:"connections"`
}

type nodeRecord struct {
	Type *string `mapstructure:"type"`
	ID   *int    `mapstructure:"id"`
	Data *string `mapstructure:"data"`
}

type connectionRecord struct {
	Src      *int  `mapstructure:"src"`
	Dst      *int  `mapstructure:"dst"`
	Predicat *int  `mapstructure:"predicat"`
	AnyOf    []int `mapstructure:"any_of"`
	Min      *int  `mapstructure:"min"`
	Max      *int  `mapstructure:"max"`
}

// Loader implements ports.Loader for YAML and JSON files.
type Loader struct {
	logger *slog.Logger
}

// Option configures the Loader.
type Option func(*Loader)

// WithLogger sets the logger receiving malformed-record warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a YAML loader.
func New(opts ...Option) *Loader {
	l := &Loader{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the file at path.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewConfigurationError(path, "cannot read file", err)
	}
	return l.Decode(path, data)
}

// Decode parses a document. source labels errors and log lines.
func (l *Loader) Decode(source string, data []byte) (*domain.Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewConfigurationError(source, "cannot parse document", err)
	}
	if doc.Name == nil {
		return nil, domain.NewConfigurationError(source, "field name not found", nil)
	}
	if doc.Nodes == nil {
		return nil, domain.NewConfigurationError(source, "field nodes not found", nil)
	}
	if doc.Connections == nil {
		return nil, domain.NewConfigurationError(source, "field connections not found", nil)
	}

	log := l.logger.With("source", source)
	def := &domain.Definition{Name: strings.TrimSpace(*doc.Name)}

	for i, raw := range *doc.Nodes {
		var rec nodeRecord
		if err := decodeRecord(raw, &rec, log, "node", i); err != nil {
			log.Warn("node skipped", "index", i, "error", err)
			continue
		}
		if err := appendNode(def, rec); err != nil {
			log.Warn("node skipped", "index", i, "error", err)
		}
	}

	for i, raw := range *doc.Connections {
		var rec connectionRecord
		if err := decodeRecord(raw, &rec, log, "connection", i); err != nil {
			log.Warn("connection skipped", "index", i, "error", err)
			continue
		}
		conn, err := toConnection(rec)
		if err != nil {
			log.Warn("connection skipped", "index", i, "error", err)
			continue
		}
		def.Connections = append(def.Connections, conn)
	}

	log.Info("expert system loaded",
		"name", def.Name,
		"questions", len(def.Questions),
		"answers", len(def.Answers),
		"connections", len(def.Connections))
	return def, nil
}

func decodeRecord(raw any, out any, log *slog.Logger, kind string, index int) error {
	if _, ok := raw.(map[string]any); !ok {
		return fmt.Errorf("record is not a mapping: %v", raw)
	}
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return err
	}
	if len(md.Unused) > 0 {
		unused := slices.Clone(md.Unused)
		slices.Sort(unused)
		log.Debug("unknown fields ignored", "record", kind, "index", index, "fields", unused)
	}
	return nil
}

func appendNode(def *domain.Definition, rec nodeRecord) error {
	if rec.Type == nil {
		return fmt.Errorf("field type not found")
	}
	if rec.ID == nil {
		return fmt.Errorf("field id not found")
	}
	if rec.Data == nil || strings.TrimSpace(*rec.Data) == "" {
		return fmt.Errorf("node %d has no data", *rec.ID)
	}
	typ, ok := domain.ParseNodeType(*rec.Type)
	if !ok {
		return fmt.Errorf("node %d has unknown type %q", *rec.ID, *rec.Type)
	}

	n := domain.NodeRecord{ID: domain.NodeID(*rec.ID), Data: strings.TrimSpace(*rec.Data)}
	if typ == domain.NodeQuestion {
		def.Questions = append(def.Questions, n)
	} else {
		def.Answers = append(def.Answers, n)
	}
	return nil
}

func toConnection(rec connectionRecord) (domain.Connection, error) {
	if rec.Src == nil {
		return domain.Connection{}, fmt.Errorf("field src not found")
	}
	if rec.Dst == nil {
		return domain.Connection{}, fmt.Errorf("field dst not found")
	}
	pred, err := toPredicate(rec)
	if err != nil {
		return domain.Connection{}, fmt.Errorf("connection %d->%d: %w", *rec.Src, *rec.Dst, err)
	}
	return domain.Connection{
		Source:    domain.NodeID(*rec.Src),
		Target:    domain.NodeID(*rec.Dst),
		Predicate: pred,
	}, nil
}

func toPredicate(rec connectionRecord) (domain.Predicate, error) {
	kinds := 0
	if rec.Predicat != nil {
		kinds++
	}
	if rec.AnyOf != nil {
		kinds++
	}
	if rec.Min != nil || rec.Max != nil {
		kinds++
	}
	switch {
	case kinds == 0:
		return nil, fmt.Errorf("no predicate (predicat, any_of or min/max)")
	case kinds > 1:
		return nil, fmt.Errorf("ambiguous predicate: use only one of predicat, any_of or min/max")
	}

	switch {
	case rec.Predicat != nil:
		return domain.Equals(*rec.Predicat), nil
	case rec.AnyOf != nil:
		return domain.AnyOf(rec.AnyOf...), nil
	case rec.Min != nil && rec.Max != nil:
		return domain.Between(*rec.Min, *rec.Max), nil
	case rec.Min != nil:
		return domain.AtLeast(*rec.Min), nil
	default:
		return domain.AtMost(*rec.Max), nil
	}
}

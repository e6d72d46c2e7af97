// Package xml loads expert systems from the reference XML format:
//
//	<es>
//	  <name>Headache</name>
//	  <tree>
//	    <nodes>
//	      <node type="question" id="1">headache?</node>
//	      <node type="answer" id="2">see a doctor</node>
//	    </nodes>
//	    <connections>
//	      <connection src="1" dst="2" predicat="1"/>
//	    </connections>
//	  </tree>
//	</es>
package xml

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

type document struct {
	XMLName xml.Name `xml:"es"`
	Name    *string  `xml:"name"`
	Tree    *tree    `xml:"tree"`
}

type tree struct {
	Nodes       *nodeList       `xml:"nodes"`
	Connections *connectionList `xml:"connections"`
}

type nodeList struct {
	Nodes []node `xml:"node"`
}

type node struct {
	Type *string `xml:"type,attr"`
	ID   *string `xml:"id,attr"`
	Data string  `xml:",chardata"`
}

type connectionList struct {
	Connections []connection `xml:"connection"`
}

type connection struct {
	Src      *string `xml:"src,attr"`
	Dst      *string `xml:"dst,attr"`
	Predicat *string `xml:"predicat,attr"`
}

// Loader implements ports.Loader for XML files.
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

// New creates an XML loader.
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
	return l.Decode(path, bytes.NewReader(data))
}

// Decode parses a document from r. source labels errors and log lines.
func (l *Loader) Decode(source string, r io.Reader) (*domain.Definition, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, domain.NewConfigurationError(source, "cannot parse document", err)
	}
	if doc.Name == nil {
		return nil, domain.NewConfigurationError(source, "element <name> not found", nil)
	}
	if doc.Tree == nil {
		return nil, domain.NewConfigurationError(source, "element <tree> not found", nil)
	}
	if doc.Tree.Nodes == nil {
		return nil, domain.NewConfigurationError(source, "element <nodes> not found", nil)
	}
	if doc.Tree.Connections == nil {
		return nil, domain.NewConfigurationError(source, "element <connections> not found", nil)
	}

	log := l.logger.With("source", source)
	def := &domain.Definition{Name: strings.TrimSpace(*doc.Name)}

	for i, n := range doc.Tree.Nodes.Nodes {
		if n.Type == nil {
			log.Warn("node skipped: attribute type not found", "index", i)
			continue
		}
		if n.ID == nil {
			log.Warn("node skipped: attribute id not found", "index", i)
			continue
		}
		id, err := parseInt(*n.ID)
		if err != nil {
			log.Warn("node skipped: invalid id", "index", i, "id", *n.ID, "error", err)
			continue
		}
		text := strings.TrimSpace(n.Data)
		if text == "" {
			log.Warn("node skipped: no data", "index", i, "id", id)
			continue
		}

		typ, ok := domain.ParseNodeType(*n.Type)
		if !ok {
			log.Warn("node skipped: unknown type", "index", i, "id", id, "type", *n.Type)
			continue
		}
		rec := domain.NodeRecord{ID: domain.NodeID(id), Data: text}
		if typ == domain.NodeQuestion {
			def.Questions = append(def.Questions, rec)
		} else {
			def.Answers = append(def.Answers, rec)
		}
	}

	for i, c := range doc.Tree.Connections.Connections {
		src, err := requiredInt("src", c.Src)
		if err != nil {
			log.Warn("connection skipped", "index", i, "error", err)
			continue
		}
		dst, err := requiredInt("dst", c.Dst)
		if err != nil {
			log.Warn("connection skipped", "index", i, "error", err)
			continue
		}
		value, err := requiredInt("predicat", c.Predicat)
		if err != nil {
			log.Warn("connection skipped", "index", i, "error", err)
			continue
		}
		def.Connections = append(def.Connections, domain.Connection{
			Source:    domain.NodeID(src),
			Target:    domain.NodeID(dst),
			Predicate: domain.Equals(value),
		})
	}

	log.Info("expert system loaded",
		"name", def.Name,
		"questions", len(def.Questions),
		"answers", len(def.Answers),
		"connections", len(def.Connections))
	return def, nil
}

func requiredInt(attr string, raw *string) (int, error) {
	if raw == nil {
		return 0, fmt.Errorf("attribute %s not found", attr)
	}
	v, err := parseInt(*raw)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %w", attr, err)
	}
	return v, nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

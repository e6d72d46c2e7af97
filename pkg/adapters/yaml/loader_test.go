package yaml_test

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	yamlAdapter "github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/yaml"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	contract "github.com/AndreyBuyanov/ExpertSystem/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headache() *domain.Definition {
	return &domain.Definition{
		Name:      "Headache",
		Questions: []domain.NodeRecord{{ID: 1, Data: "headache?"}},
		Answers: []domain.NodeRecord{
			{ID: 2, Data: "see a doctor"},
			{ID: 3, Data: "you're healthy"},
		},
		Connections: []domain.Connection{
			{Source: 1, Target: 2, Predicate: domain.Equals(1)},
			{Source: 1, Target: 3, Predicate: domain.Equals(0)},
		},
	}
}

func TestLoader_Contract_YAML(t *testing.T) {
	contract.LoaderContractTest(t, yamlAdapter.New(), filepath.Join("testdata", "headache.yaml"), headache(), -1, 0, 1, 2)
}

func TestLoader_Contract_JSON(t *testing.T) {
	contract.LoaderContractTest(t, yamlAdapter.New(), filepath.Join("testdata", "headache.json"), headache(), -1, 0, 1, 2)
}

func TestLoader_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"NotYAML", "name: [unclosed", "cannot parse document"},
		{"MissingName", "nodes: []\nconnections: []\n", "field name"},
		{"MissingNodes", "name: x\nconnections: []\n", "field nodes"},
		{"MissingConnections", "name: x\nnodes:\n  - {type: question, id: 1, data: q}\n", "field connections"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := yamlAdapter.New().Decode("inline", []byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoader_PredicateKinds(t *testing.T) {
	doc := `
name: Pain
nodes:
  - {type: question, id: 1, data: "pain level?"}
  - {type: answer, id: 2, data: none}
  - {type: answer, id: 3, data: mild}
  - {type: answer, id: 4, data: severe}
  - {type: answer, id: 5, data: off the chart}
connections:
  - {src: 1, dst: 2, predicat: "0"}
  - {src: 1, dst: 3, any_of: [1, 2, 3]}
  - {src: 1, dst: 4, min: 4, max: 10}
  - {src: 1, dst: 5, min: 11}
`
	def, err := yamlAdapter.New().Decode("inline", []byte(doc))
	require.NoError(t, err)
	require.Len(t, def.Connections, 4)

	assert.True(t, def.Connections[0].Predicate.Accept(0), "weakly typed string predicat")
	assert.True(t, def.Connections[1].Predicate.Accept(2))
	assert.False(t, def.Connections[1].Predicate.Accept(4))
	assert.True(t, def.Connections[2].Predicate.Accept(10))
	assert.False(t, def.Connections[2].Predicate.Accept(11))
	assert.True(t, def.Connections[3].Predicate.Accept(500))
	assert.Equal(t, ">=11", domain.DescribePredicate(def.Connections[3].Predicate))
}

func TestLoader_MalformedRecordsAreSkipped(t *testing.T) {
	doc := `
name: Skips
nodes:
  - {type: question, id: 1, data: first}
  - {id: 2, data: no type}
  - {type: answer, data: no id}
  - {type: answer, id: {n: 1}, data: bad id}
  - {type: answer, id: 3}
  - {type: comment, id: 4, data: unknown type}
  - {type: answer, id: 5, data: kept, colour: blue}
connections:
  - {dst: 5, predicat: 1}
  - {src: 1, predicat: 1}
  - {src: 1, dst: 5}
  - {src: 1, dst: 5, predicat: 1, any_of: [2]}
  - {src: 1, dst: 5, predicat: 1}
`
	var logs bytes.Buffer
	loader := yamlAdapter.New(yamlAdapter.WithLogger(logging.NewWithWriter(&logs, slog.LevelDebug, false)))

	def, err := loader.Decode("inline", []byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []domain.NodeRecord{{ID: 1, Data: "first"}}, def.Questions)
	assert.Equal(t, []domain.NodeRecord{{ID: 5, Data: "kept"}}, def.Answers)
	require.Len(t, def.Connections, 1)

	out := logs.String()
	assert.Equal(t, 9, strings.Count(out, "level=WARN"))
	assert.Contains(t, out, "ambiguous predicate")
	assert.Contains(t, out, "unknown fields ignored")
}

func TestLoader_NonMappingRecordsAreSkipped(t *testing.T) {
	doc := `
name: Scalars
nodes:
  - foo
  - {type: question, id: 1, data: first}
  - [1, 2]
  - {type: answer, id: 2, data: done}
connections:
  - 42
  - {src: 1, dst: 2, predicat: 1}
`
	var logs bytes.Buffer
	loader := yamlAdapter.New(yamlAdapter.WithLogger(logging.NewWithWriter(&logs, slog.LevelDebug, false)))

	def, err := loader.Decode("inline", []byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []domain.NodeRecord{{ID: 1, Data: "first"}}, def.Questions)
	assert.Equal(t, []domain.NodeRecord{{ID: 2, Data: "done"}}, def.Answers)
	require.Len(t, def.Connections, 1)
	assert.Equal(t, 3, strings.Count(logs.String(), "level=WARN"))
	assert.Contains(t, logs.String(), "record is not a mapping")
}

func TestLoader_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := yamlAdapter.New().Load(ctx, filepath.Join("testdata", "headache.yaml"))
	assert.ErrorIs(t, err, context.Canceled)
}

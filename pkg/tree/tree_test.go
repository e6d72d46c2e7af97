package tree_test

import (
	"testing"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_RootIsFirstQuestion(t *testing.T) {
	tr := tree.New()

	_, err := tr.Root()
	assert.ErrorIs(t, err, domain.ErrNoRoot)

	require.NoError(t, tr.AddAnswer(10, "answer first"))
	_, err = tr.Root()
	assert.ErrorIs(t, err, domain.ErrNoRoot, "answers never become the root")

	require.NoError(t, tr.AddQuestion(5, "first question"))
	require.NoError(t, tr.AddQuestion(1, "second question"))

	root, err := tr.Root()
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(5), root.ID())
	assert.Equal(t, domain.NodeQuestion, root.Type())
}

func TestTree_DuplicateIDKeepsExisting(t *testing.T) {
	tr := tree.New()
	require.NoError(t, tr.AddQuestion(1, "original"))

	assert.ErrorIs(t, tr.AddAnswer(1, "impostor"), domain.ErrDuplicateNode)
	assert.ErrorIs(t, tr.AddQuestion(1, "impostor"), domain.ErrDuplicateNode)

	n, ok := tr.Node(1)
	require.True(t, ok)
	assert.Equal(t, "original", n.Data())
	assert.Equal(t, 1, tr.Len())
}

func TestTree_AddConnection(t *testing.T) {
	tr := tree.New()
	require.NoError(t, tr.AddQuestion(1, "headache?"))
	require.NoError(t, tr.AddAnswer(2, "see a doctor"))

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, tr.AddConnection(domain.Connection{Source: 1, Target: 2, Predicate: domain.Equals(1)}))
		q, _ := tr.Node(1)
		next, err := q.Next(1)
		require.NoError(t, err)
		assert.Equal(t, domain.NodeID(2), next.ID())
	})

	t.Run("UnknownSource", func(t *testing.T) {
		err := tr.AddConnection(domain.Connection{Source: 9, Target: 2, Predicate: domain.Equals(1)})
		assert.ErrorIs(t, err, domain.ErrUnknownNode)
	})

	t.Run("UnknownTarget", func(t *testing.T) {
		err := tr.AddConnection(domain.Connection{Source: 1, Target: 9, Predicate: domain.Equals(1)})
		assert.ErrorIs(t, err, domain.ErrUnknownNode)
	})

	t.Run("AnswerSource", func(t *testing.T) {
		err := tr.AddConnection(domain.Connection{Source: 2, Target: 1, Predicate: domain.Equals(1)})
		assert.ErrorIs(t, err, domain.ErrNotAQuestion)
		a, _ := tr.Node(2)
		assert.Empty(t, a.Edges())
	})
}

func TestBuild(t *testing.T) {
	def := &domain.Definition{
		Name:      "Headache",
		Questions: []domain.NodeRecord{{ID: 1, Data: "headache?"}},
		Answers: []domain.NodeRecord{
			{ID: 2, Data: "see a doctor"},
			{ID: 3, Data: "you're healthy"},
			{ID: 3, Data: "duplicate"},
		},
		Connections: []domain.Connection{
			{Source: 1, Target: 2, Predicate: domain.Equals(1)},
			{Source: 1, Target: 3, Predicate: domain.Equals(0)},
			{Source: 1, Target: 42, Predicate: domain.Equals(2)},
		},
	}

	tr, issues := tree.Build(def)
	require.Len(t, issues, 2)
	assert.ErrorIs(t, issues[0], domain.ErrDuplicateNode)
	assert.ErrorIs(t, issues[1], domain.ErrUnknownNode)

	assert.Equal(t, 3, tr.Len())
	ids := []domain.NodeID{}
	for _, n := range tr.Nodes() {
		ids = append(ids, n.ID())
	}
	assert.Equal(t, []domain.NodeID{1, 2, 3}, ids)
}

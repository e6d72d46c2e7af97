package memory_test

import (
	"testing"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/memory"
	contract "github.com/AndreyBuyanov/ExpertSystem/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	contract.StateStoreContractTest(t, store)
}

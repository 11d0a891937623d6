package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

func TestFlipMap_Prune_PreservesKnownValues(t *testing.T) {
	flips := domain.FlipMap{"1": true, "2": false, "3": true}

	pruned := flips.Prune([]string{"1", "3"})

	assert.Equal(t, domain.FlipMap{"1": true, "3": true}, pruned)
}

func TestFlipMap_Prune_DefaultsUnknownToFaceDown(t *testing.T) {
	flips := domain.FlipMap{"1": true}

	pruned := flips.Prune([]string{"1", "7", "9"})

	assert.Equal(t, domain.FlipMap{"1": true, "7": false, "9": false}, pruned)
}

func TestFlipMap_Prune_ExactKeySet(t *testing.T) {
	flips := domain.FlipMap{"stale": true, "kept": true}

	pruned := flips.Prune([]string{"kept"})

	assert.Len(t, pruned, 1)
	assert.NotContains(t, pruned, "stale")
}

func TestFlipMap_Prune_Idempotent(t *testing.T) {
	flips := domain.FlipMap{"1": true, "2": false, "old": true}
	allowed := []string{"1", "2", "new"}

	once := flips.Prune(allowed)
	twice := once.Prune(allowed)

	assert.Equal(t, once, twice)
}

func TestFlipMap_Prune_EmptyAllowed(t *testing.T) {
	flips := domain.FlipMap{"1": true}

	pruned := flips.Prune(nil)

	assert.Empty(t, pruned)
	assert.NotNil(t, pruned)
}

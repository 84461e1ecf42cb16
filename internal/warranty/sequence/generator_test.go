package sequence_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/sequence"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorFormat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	gen := sequence.NewGenerator(db, "RK")

	year := time.Now().Year()

	first, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("RK-%d-00001", year), first)

	second, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("RK-%d-00002", year), second)
}

func TestGeneratorCustomPrefix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	gen := sequence.NewGenerator(db, "WC")

	number, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Contains(t, number, "WC-")
}

func TestGeneratorConcurrentDistinct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	gen := sequence.NewGenerator(db, "RK")

	const callers = 20
	numbers := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			numbers[i], errs[i] = gen.Next(context.Background())
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "duplicate number %s", numbers[i])
		seen[numbers[i]] = true
	}
}

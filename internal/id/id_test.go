package id

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorNext(t *testing.T) {
	a := NewAllocator()
	first := a.Next()
	second := a.Next()

	assert.True(t, first.IsLocal())
	assert.Equal(t, "local:1", first.String())
	assert.Equal(t, "local:2", second.String())
	assert.NotEqual(t, first, second)
}

func TestAllocatorConcurrent(t *testing.T) {
	a := NewAllocator()
	const n = 200

	var mu sync.Mutex
	seen := make(map[ID]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := a.Next()
			mu.Lock()
			seen[got] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n, "every allocated id should be unique")
}

func TestSpaces(t *testing.T) {
	local := NewLocal(4)
	server := FromServer("4")

	assert.True(t, local.IsLocal())
	assert.False(t, local.IsPersisted())
	assert.True(t, server.IsPersisted())
	assert.NotEqual(t, local, server, "same value in different spaces must not collide")
	assert.Equal(t, "4", local.Value())
	assert.Equal(t, "4", server.Value())
	assert.True(t, ID{}.IsZero())
	assert.Equal(t, "", ID{}.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  ID
	}{
		{"local:1", NewLocal(1)},
		{"local:42", NewLocal(42)},
		{"b1c2-line", FromServer("b1c2-line")},
		{"  temp-3 ", FromServer("temp-3")},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParse_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"   ",
		"local:",
		"local:abc",
		"local:-1",
	}
	for _, input := range badInputs {
		_, err := Parse(input)
		assert.Error(t, err, "expected error for input: %q", input)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, want := range []ID{NewLocal(9), FromServer("line-9")} {
		got, err := Parse(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_EveryAliasMapsToOnePair(t *testing.T) {
	seen := make(map[string]int)
	for i, p := range places {
		require.NotEmpty(t, p.names)
		assert.True(t, p.lat >= -90 && p.lat <= 90, p.names[0])
		assert.True(t, p.lon >= -180 && p.lon <= 180, p.names[0])
		for _, n := range p.names {
			if prev, ok := seen[n]; ok {
				t.Errorf("alias %q appears in rows %d and %d", n, prev, i)
			}
			seen[n] = i
		}
	}
	assert.Equal(t, len(seen), NewRegistry().Len())
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()

	bj, ok := r.Lookup("北京")
	require.True(t, ok)
	latin, ok := r.Lookup("Beijing")
	require.True(t, ok)
	assert.Equal(t, bj, latin)

	_, ok = r.Lookup("beijing")
	assert.False(t, ok, "lookups are case-sensitive")

	_, ok = r.Lookup(" 北京")
	assert.False(t, ok, "no trimming or fuzzy matching")
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	names := r.Names()

	require.Len(t, names, len(places))
	assert.Equal(t, "北京", names[0])

	names[0] = "mutated"
	assert.Equal(t, "北京", r.Names()[0])
}

func TestRegistry_MatchRegistry(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		city   string
		want   string
		wantOK bool
	}{
		{"Shanghai", "上海", true},
		{"上海市", "上海", true},
		{"Hangzhou City", "杭州", true},
		{"北京", "北京", true},
		{"", "", false},
		{"Reykjavik", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			got, ok := r.MatchRegistry(tt.city)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type stubLocator struct {
	city string
	err  error
}

func (s stubLocator) Locate(context.Context) (string, error) { return s.city, s.err }

func TestHintLocator(t *testing.T) {
	r := NewRegistry()

	city, err := NewHintLocator(r, stubLocator{city: "Shenzhen"}).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "深圳", city)

	city, err = NewHintLocator(r, stubLocator{city: "Reykjavik"}).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Reykjavik", city)

	_, err = NewHintLocator(r, stubLocator{err: errors.New("offline")}).Locate(context.Background())
	assert.Error(t, err)
}

func TestRegistry_FindIn(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"Beijing, today", "北京", true},
		{"what about BEIJING?", "北京", true},
		{"北京今天天气怎么样", "北京", true},
		{"上海市明天", "上海", true},
		{"Hong Kong tomorrow", "香港", true},
		{"Xiangtan", "", false},
		{"Atlantis, today", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := r.FindIn(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

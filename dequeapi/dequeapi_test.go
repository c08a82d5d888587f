package dequeapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joeycumines/go-ofdeque/dequeapi"
	"github.com/joeycumines/go-ofdeque/ofdeque"
)

func TestCapability_Has(t *testing.T) {
	c := dequeapi.Queue | dequeapi.Stack
	assert.True(t, c.Has(dequeapi.Queue))
	assert.True(t, c.Has(dequeapi.Stack))
	assert.False(t, c.Has(dequeapi.Random))
	assert.True(t, c.Has(dequeapi.Queue|dequeapi.Stack))
}

func TestRideable_SatisfiesDequeInterface(t *testing.T) {
	d := ofdeque.New[int](1, ofdeque.WithEmptySentinel[int](-1))
	r := dequeapi.Rideable[int]{Deque: d, Capabilities: dequeapi.Random}

	var _ dequeapi.Deque[int] = r

	r.LeftPush(5, 0)
	assert.Equal(t, 5, r.RightPop(0))
	assert.True(t, r.Capabilities.Has(dequeapi.Random))
}

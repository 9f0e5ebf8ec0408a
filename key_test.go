package berth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyOf(t *testing.T) {
	assert.Equal(t, Key("github.com/xraph/berth.memoryStore"), KeyOf[memoryStore]())
	assert.Equal(t, Key("*github.com/xraph/berth.memoryStore"), KeyOf[*memoryStore]())
	assert.Equal(t, Key("github.com/xraph/berth.store"), KeyOf[store]())
	assert.Equal(t, Key("error"), KeyOf[error]())
	assert.Equal(t, Key("[]int"), KeyOf[[]int]())
	assert.Equal(t, Key("<nil>"), KeyFor(nil))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []Key{"a", "b"}, Keys("a", "b"))
	assert.Empty(t, Keys())
	assert.Equal(t, "a", Key("a").String())
}

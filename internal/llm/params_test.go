package llm

import (
	"testing"

	"github.com/nulzo/llm-provider-kit/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	p := api.NewPayload("m", "hi")

	msgs, err := Messages(p)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content.String())

	msgs, err = Messages(api.Payload{})
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = Messages(api.Payload{"messages": "not a list"})
	assert.Error(t, err)
}

func TestNumericFields(t *testing.T) {
	temp := 0.5
	p := api.Payload{"a": 1, "b": 2.5, "c": &temp, "d": "x"}

	v, ok := Float(p, "a")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	n, ok := Int(p, "b")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	v, ok = Float(p, "c")
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)

	_, ok = Float(p, "d")
	assert.False(t, ok)
	_, ok = Float(p, "missing")
	assert.False(t, ok)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"END"}, Strings(api.Payload{"stop": "END"}, "stop"))
	assert.Equal(t, []string{"a", "b"}, Strings(api.Payload{"stop": []interface{}{"a", "b"}}, "stop"))
	assert.Equal(t, []string{"x"}, Strings(api.Payload{"stop": api.Stop{Val: []string{"x"}}}, "stop"))
	assert.Nil(t, Strings(api.Payload{"stop": ""}, "stop"))
}

package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(VariantDescriptor{Type: "weather", Label: "Weather"}))

	v, ok := r.Lookup("weather")
	require.True(t, ok)
	assert.Equal(t, "Weather", v.Label)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(VariantDescriptor{Type: "todo"}))
	err := r.Register(VariantDescriptor{Type: "todo"})
	assert.Error(t, err)

	err = r.Register(VariantDescriptor{})
	assert.Error(t, err)
}

func TestRegistryAvailableOrdering(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(VariantDescriptor{Type: "c", Priority: 20}))
	require.NoError(t, r.Register(VariantDescriptor{Type: "a", Priority: 10}))
	require.NoError(t, r.Register(VariantDescriptor{Type: "b", Priority: 10}))

	got := r.Available(nil)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Type)
	assert.Equal(t, "b", got[1].Type, "equal priorities keep registration order")
	assert.Equal(t, "c", got[2].Type)
}

func TestRegistryAvailableExclusions(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(VariantDescriptor{Type: "weather"}))
	require.NoError(t, r.Register(VariantDescriptor{Type: "todo"}))
	require.NoError(t, r.Register(VariantDescriptor{Type: "gated", Registered: func() bool { return false }}))

	got := r.Available([]string{"todo"})

	require.Len(t, got, 1)
	assert.Equal(t, "weather", got[0].Type)
}

func TestConfigFieldValidate(t *testing.T) {
	number := ConfigField{Name: "limit", Kind: FieldNumber}
	assert.Empty(t, number.Validate("10"))
	assert.NotEmpty(t, number.Validate("ten"))

	choice := ConfigField{Name: "units", Kind: FieldOptions, Options: []Option{{Value: "c"}, {Value: "f"}}}
	assert.Empty(t, choice.Validate("c"))
	assert.NotEmpty(t, choice.Validate("k"))

	text := ConfigField{Name: "title", Kind: FieldText, MaxLen: 5}
	assert.Empty(t, text.Validate("short"))
	assert.NotEmpty(t, text.Validate("too long"))
}

func TestConfigSchemaPrependsBaseFields(t *testing.T) {
	v := &VariantDescriptor{
		Type:   "weather",
		Fields: []ConfigField{{Name: "location", Kind: FieldText}},
	}

	schema := v.ConfigSchema()

	require.Len(t, schema, 3)
	assert.Equal(t, FieldNameTitle, schema[0].Name)
	assert.Equal(t, FieldNameSize, schema[1].Name)
	assert.Equal(t, "location", schema[2].Name)
}

func TestVariantHasItems(t *testing.T) {
	plain := &VariantDescriptor{Type: "weather"}
	container := &VariantDescriptor{Type: "todo", ItemFields: []ConfigField{{Name: "text", Kind: FieldText}}}

	assert.False(t, plain.HasItems())
	assert.True(t, container.HasItems())
}

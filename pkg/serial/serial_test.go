package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type greeting struct {
	Text  string `json:"text" yaml:"text"`
	Count int    `json:"count" yaml:"count"`
}

type order struct {
	ID    string   `yaml:"id"`
	Items []string `yaml:"items"`
}

func TestBytesRoundTrip(t *testing.T) {
	r := NewRegistry()
	p, err := r.Serialize([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, BytesID, p.SerializerID)
	assert.Empty(t, p.Manifest)

	v, err := r.Deserialize(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), v)
}

func TestJSONRoundTripPointer(t *testing.T) {
	r := NewRegistry()
	Bind[*greeting](r, JSONID)

	p, err := r.Serialize(&greeting{Text: "hi", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, JSONID, p.SerializerID)
	assert.Equal(t, "*serial.greeting", p.Manifest)

	v, err := r.Deserialize(p)
	require.NoError(t, err)
	assert.Equal(t, &greeting{Text: "hi", Count: 2}, v)
}

func TestYAMLRoundTripValue(t *testing.T) {
	r := NewRegistry()
	Bind[order](r, YAMLID)

	p, err := r.Serialize(order{ID: "o-1", Items: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Contains(t, string(p.Data), "id: o-1")

	v, err := r.Deserialize(p)
	require.NoError(t, err)
	assert.Equal(t, order{ID: "o-1", Items: []string{"a", "b"}}, v)
}

func TestProtoRoundTrip(t *testing.T) {
	r := NewRegistry()
	msg := wrapperspb.String("hello")

	p, err := r.Serialize(msg)
	require.NoError(t, err)
	assert.Equal(t, ProtoID, p.SerializerID)
	assert.Equal(t, "google.protobuf.StringValue", p.Manifest)

	v, err := r.Deserialize(p)
	require.NoError(t, err)
	got, ok := v.(*wrapperspb.StringValue)
	require.True(t, ok)
	assert.True(t, proto.Equal(msg, got))
}

func TestSerializerNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.Serialize(greeting{})
	require.ErrorIs(t, err, ErrSerializerNotFound)

	_, err = r.Serialize(nil)
	require.ErrorIs(t, err, ErrSerializerNotFound)

	_, err = r.Deserialize(&Payload{SerializerID: 99})
	require.ErrorIs(t, err, ErrSerializerNotFound)
}

func TestUnknownManifest(t *testing.T) {
	r := NewRegistry()
	_, err := r.Deserialize(&Payload{SerializerID: JSONID, Manifest: "*pkg.Missing", Data: []byte("{}")})
	require.ErrorIs(t, err, ErrUnknownManifest)

	_, err = r.Deserialize(&Payload{SerializerID: ProtoID, Manifest: "no.such.Message"})
	require.ErrorIs(t, err, ErrUnknownManifest)
}

type upperBytes struct{}

func (upperBytes) Identifier() int32 { return 42 }
func (upperBytes) IncludeManifest() bool { return false }
func (upperBytes) Manifest(any) string { return "" }
func (upperBytes) ToBinary(v any) ([]byte, error) {
	return []byte(v.(string)), nil
}
func (upperBytes) FromBinary(data []byte, _ string) (any, error) {
	return string(data) + "!", nil
}

func TestCustomSerializer(t *testing.T) {
	r := NewRegistry()
	r.Register(upperBytes{})
	Bind[string](r, 42)

	p, err := r.Serialize("x")
	require.NoError(t, err)
	v, err := r.Deserialize(p)
	require.NoError(t, err)
	assert.Equal(t, "x!", v)
}

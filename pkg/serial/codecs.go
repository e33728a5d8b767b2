package serial

import (
	"encoding/json"
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"gopkg.in/yaml.v3"
)

// Bytes 原样传递 []byte
type Bytes struct{}

func (Bytes) Identifier() int32 { return BytesID }
func (Bytes) IncludeManifest() bool { return false }
func (Bytes) Manifest(any) string { return "" }

func (Bytes) ToBinary(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("bytes serializer: unsupported %T", v)
	}
	return b, nil
}

func (Bytes) FromBinary(data []byte, _ string) (any, error) {
	return data, nil
}

// JSON 使用 encoding/json，manifest 为类型名
type JSON struct {
	types *TypeTable
}

// NewJSON 创建 JSON 序列化器，manifest 在 types 中解析
func NewJSON(types *TypeTable) *JSON {
	return &JSON{types: types}
}

func (*JSON) Identifier() int32 { return JSONID }
func (*JSON) IncludeManifest() bool { return true }
func (*JSON) Manifest(v any) string { return reflect.TypeOf(v).String() }
func (*JSON) ToBinary(v any) ([]byte, error) { return json.Marshal(v) }

func (s *JSON) FromBinary(data []byte, manifest string) (any, error) {
	typ, err := s.types.Lookup(manifest)
	if err != nil {
		return nil, err
	}
	return decodeInto(typ, func(target any) error {
		return json.Unmarshal(data, target)
	})
}

// YAML 使用 gopkg.in/yaml.v3，manifest 为类型名
type YAML struct {
	types *TypeTable
}

// NewYAML 创建 YAML 序列化器，manifest 在 types 中解析
func NewYAML(types *TypeTable) *YAML {
	return &YAML{types: types}
}

func (*YAML) Identifier() int32 { return YAMLID }
func (*YAML) IncludeManifest() bool { return true }
func (*YAML) Manifest(v any) string { return reflect.TypeOf(v).String() }
func (*YAML) ToBinary(v any) ([]byte, error) { return yaml.Marshal(v) }

func (s *YAML) FromBinary(data []byte, manifest string) (any, error) {
	typ, err := s.types.Lookup(manifest)
	if err != nil {
		return nil, err
	}
	return decodeInto(typ, func(target any) error {
		return yaml.Unmarshal(data, target)
	})
}

// Proto protobuf 二进制格式，manifest 为消息全名
//
// 反序列化在 protoregistry.GlobalTypes 中查找消息类型。
type Proto struct{}

func (Proto) Identifier() int32 { return ProtoID }
func (Proto) IncludeManifest() bool { return true }

func (Proto) Manifest(v any) string {
	m, ok := v.(proto.Message)
	if !ok {
		return ""
	}
	return string(m.ProtoReflect().Descriptor().FullName())
}

func (Proto) ToBinary(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("proto serializer: %T is not a proto.Message", v)
	}
	return proto.Marshal(m)
}

func (Proto) FromBinary(data []byte, manifest string) (any, error) {
	mt, err := protoregistry.GlobalTypes.FindMessageByName(protoreflect.FullName(manifest))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnknownManifest, manifest, err)
	}
	m := mt.New().Interface()
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

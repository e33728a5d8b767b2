// Package serial 提供消息序列化插件点
//
// [Registry] 按消息类型选择 [Serializer]，序列化结果 [Payload] 携带序列化器编号
// 以及必要时的 manifest，反序列化时据此还原原始类型。
// 内置字节、JSON、YAML、protobuf 四种序列化器。
package serial

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"google.golang.org/protobuf/proto"
)

// 内置序列化器编号
const (
	BytesID int32 = 1
	JSONID  int32 = 2
	YAMLID  int32 = 3
	ProtoID int32 = 4
)

var (
	// ErrSerializerNotFound 没有可用的序列化器
	ErrSerializerNotFound = errors.New("serial: serializer not found")
	// ErrUnknownManifest manifest 无法解析为已登记的类型
	ErrUnknownManifest = errors.New("serial: unknown manifest")
)

// Serializer 序列化器
type Serializer interface {
	// Identifier 全局唯一编号
	Identifier() int32
	// IncludeManifest 反序列化是否需要 manifest
	IncludeManifest() bool
	// Manifest 返回 v 的 manifest
	Manifest(v any) string
	ToBinary(v any) ([]byte, error)
	FromBinary(data []byte, manifest string) (any, error)
}

// Payload 序列化结果
type Payload struct {
	SerializerID int32
	Manifest     string
	Data         []byte
}

// Registry 序列化器注册表
type Registry struct {
	mu          sync.RWMutex
	serializers map[int32]Serializer
	bindings    map[reflect.Type]int32
	types       *TypeTable
}

// NewRegistry 创建注册表，登记内置序列化器
//
// []byte 绑定字节序列化器，proto.Message 实现者使用 protobuf，
// 其余类型需要通过 [Registry.Bind] 绑定。
func NewRegistry() *Registry {
	r := &Registry{
		serializers: make(map[int32]Serializer),
		bindings:    make(map[reflect.Type]int32),
		types:       NewTypeTable(),
	}
	r.Register(Bytes{})
	r.Register(NewJSON(r.types))
	r.Register(NewYAML(r.types))
	r.Register(Proto{})
	r.bindings[reflect.TypeFor[[]byte]()] = BytesID
	return r
}

// Register 登记序列化器，同编号覆盖
func (r *Registry) Register(s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serializers[s.Identifier()] = s
}

// Bind 把类型 t 绑定到编号为 id 的序列化器，同时登记 t 的 manifest
func (r *Registry) Bind(t reflect.Type, id int32) {
	r.mu.Lock()
	r.bindings[t] = id
	r.mu.Unlock()
	r.types.Add(t)
}

// Bind 把类型 T 绑定到编号为 id 的序列化器
func Bind[T any](r *Registry, id int32) {
	r.Bind(reflect.TypeFor[T](), id)
}

// Types 注册表使用的类型表
func (r *Registry) Types() *TypeTable {
	return r.types
}

// FindFor 返回 v 使用的序列化器
func (r *Registry) FindFor(v any) (Serializer, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", ErrSerializerNotFound)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.bindings[reflect.TypeOf(v)]; ok {
		if s, ok := r.serializers[id]; ok {
			return s, nil
		}
		return nil, fmt.Errorf("%w: id %d", ErrSerializerNotFound, id)
	}
	if _, ok := v.(proto.Message); ok {
		return r.serializers[ProtoID], nil
	}
	return nil, fmt.Errorf("%w: %T", ErrSerializerNotFound, v)
}

// ByID 按编号查找序列化器
func (r *Registry) ByID(id int32) (Serializer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.serializers[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrSerializerNotFound, id)
	}
	return s, nil
}

// Serialize 序列化 v
func (r *Registry) Serialize(v any) (*Payload, error) {
	s, err := r.FindFor(v)
	if err != nil {
		return nil, err
	}
	data, err := s.ToBinary(v)
	if err != nil {
		return nil, fmt.Errorf("serial: encode %T: %w", v, err)
	}
	p := &Payload{SerializerID: s.Identifier(), Data: data}
	if s.IncludeManifest() {
		p.Manifest = s.Manifest(v)
	}
	return p, nil
}

// Deserialize 按 Payload 还原值
func (r *Registry) Deserialize(p *Payload) (any, error) {
	s, err := r.ByID(p.SerializerID)
	if err != nil {
		return nil, err
	}
	v, err := s.FromBinary(p.Data, p.Manifest)
	if err != nil {
		return nil, fmt.Errorf("serial: decode %q: %w", p.Manifest, err)
	}
	return v, nil
}

// TypeTable manifest 到类型的映射，manifest 取 reflect.Type.String()
type TypeTable struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewTypeTable 创建类型表
func NewTypeTable() *TypeTable {
	return &TypeTable{types: make(map[string]reflect.Type)}
}

// Add 登记类型
func (t *TypeTable) Add(typ reflect.Type) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.types[typ.String()] = typ
}

// Lookup 按 manifest 查找类型
func (t *TypeTable) Lookup(manifest string) (reflect.Type, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	typ, ok := t.types[manifest]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownManifest, manifest)
	}
	return typ, nil
}

// decodeInto 为 typ 分配新值，由 unmarshal 填充后返回与 typ 相同类型的值
func decodeInto(typ reflect.Type, unmarshal func(target any) error) (any, error) {
	if typ.Kind() == reflect.Pointer {
		ptr := reflect.New(typ.Elem())
		if err := unmarshal(ptr.Interface()); err != nil {
			return nil, err
		}
		return ptr.Interface(), nil
	}
	ptr := reflect.New(typ)
	if err := unmarshal(ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

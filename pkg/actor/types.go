package actor

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Message Actor 消息
//
// 任意值都可以作为消息投递。实现 [Kinded] 的消息在日志中以 Kind 标识，
// 否则使用动态类型名。
type Message = any

// Kinded 可选的消息类型标识接口
type Kinded interface {
	// Kind 返回消息类型标识，用于路由和监控
	Kind() string
}

// KindOf 返回消息的类型标识
func KindOf(msg Message) string {
	if k, ok := msg.(Kinded); ok {
		return k.Kind()
	}
	return fmt.Sprintf("%T", msg)
}

// PID (Process ID) Actor 进程标识符
// 类似 Erlang 的 PID，是 Actor 的唯一寻址方式
type PID struct {
	// ID Actor 唯一标识（本地）
	ID string
	// Address 网络地址，本地 Actor 为空
	// 远程部署只记录地址，消息仍在本地投递
	Address string
	// system 所属的 Actor 系统（内部使用）
	system *System
}

// String 返回 PID 的字符串表示
func (p *PID) String() string {
	if p == nil {
		return "<nil>"
	}
	if p.Address != "" {
		return fmt.Sprintf("%s@%s", p.ID, p.Address)
	}
	return p.ID
}

// Tell 发送消息（fire-and-forget），不携带发送者
func (p *PID) Tell(msg Message) {
	if p.system != nil {
		p.system.Send(p, msg)
	}
}

// TrySend 尝试发送消息（非阻塞）
// 如果邮箱已满，返回 false
func (p *PID) TrySend(msg Message) bool {
	if p.system == nil {
		return false
	}
	return p.system.TrySend(p, msg)
}

// Request 发送请求并等待单条回复（同步调用）
func (p *PID) Request(msg Message, timeout time.Duration) (Message, error) {
	if p.system == nil {
		return nil, ErrSystemNotRunning
	}
	return p.system.Request(p, msg, timeout)
}

// Actor Actor 接口
// 实现此接口即可成为 Actor
type Actor interface {
	// Receive 处理接收到的消息
	// ctx 提供 Actor 上下文，msg 为接收到的消息
	Receive(ctx *Context, msg Message)
}

// PreStarter 可选的启动钩子
//
// 每个化身（首次启动以及每次重启后）在处理第一条消息之前调用一次。
type PreStarter interface {
	PreStart(ctx *Context)
}

// ActorFunc 函数式 Actor，便于快速创建简单 Actor
type ActorFunc func(ctx *Context, msg Message)

// Receive 实现 Actor 接口
func (f ActorFunc) Receive(ctx *Context, msg Message) {
	f(ctx, msg)
}

// BaseActor 基础 Actor 实现
// 提供默认的空实现，方便嵌入
type BaseActor struct{}

// Receive 默认实现，不处理任何消息
func (b *BaseActor) Receive(_ *Context, _ Message) {}

// Spawner 可以创建 Actor 的对象，[System] 创建顶层 Actor，[Context] 创建子 Actor
type Spawner interface {
	SpawnWithProps(props *Props, name string) *PID
}

// Context Actor 执行上下文
// 每次投递生成一个，只在当前 Receive 调用期间有效
type Context struct {
	// Self 当前 Actor 的 PID
	Self *PID
	// Sender 消息发送者的 PID（如果有）
	Sender *PID
	// Parent 父 Actor 的 PID（如果有）
	Parent *PID
	// Children 子 Actor 列表
	Children []*PID

	system  *System
	ctx     context.Context
	message Message
}

// Tell 以自身为发送者发送消息
func (c *Context) Tell(target *PID, msg Message) {
	c.system.SendWithSender(target, msg, c.Self)
}

// Reply 回复消息给当前发送者
// 没有发送者时消息被丢弃
func (c *Context) Reply(msg Message) {
	if c.Sender == nil {
		c.system.logger.Debug("reply without sender dropped", "actor", c.Self.ID, "kind", KindOf(msg))
		return
	}
	c.system.SendWithSender(c.Sender, msg, c.Self)
}

// Forward 转发当前消息到另一个 Actor，保留原发送者
func (c *Context) Forward(target *PID) {
	if c.message != nil {
		c.system.SendWithSender(target, c.message, c.Sender)
	}
}

// Spawn 创建子 Actor，Actor 实例在重启时复用
func (c *Context) Spawn(actor Actor, name string) *PID {
	return c.SpawnWithProps(PropsFromActor(actor), name)
}

// SpawnWithProps 使用属性创建子 Actor
func (c *Context) SpawnWithProps(props *Props, name string) *PID {
	pid := c.system.spawnWithProps(props, name, c.Self)
	if pid != nil {
		c.Children = append(c.Children, pid)
	}
	return pid
}

// Stop 停止指定 Actor
func (c *Context) Stop(pid *PID) {
	c.system.Stop(pid)
}

// StopSelf 停止当前 Actor
func (c *Context) StopSelf() {
	c.system.Stop(c.Self)
}

// Unhandled 报告无法处理的消息，发布 [UnhandledMessage] 到事件流
func (c *Context) Unhandled(msg Message) {
	c.system.logger.Debug("unhandled message", "actor", c.Self.ID, "kind", KindOf(msg))
	c.system.events.Publish(&UnhandledMessage{
		Message:   msg,
		Recipient: c.Self,
		Sender:    c.Sender,
	})
}

// Context 获取 Go context，Actor 停止时取消
func (c *Context) Context() context.Context {
	return c.ctx
}

// Message 获取当前正在处理的消息
func (c *Context) Message() Message {
	return c.message
}

// System 获取 Actor 系统引用
func (c *Context) System() *System {
	return c.system
}

// Logger 带 actor 属性的日志器
func (c *Context) Logger() *slog.Logger {
	return c.system.logger.With("actor", c.Self.ID)
}

// Watch 监控另一个 Actor
// 当被监控的 Actor 终止时，会收到 Terminated 消息；目标已不存在时立即收到
func (c *Context) Watch(pid *PID) {
	c.system.watch(pid, c.Self)
}

// Unwatch 取消监控
func (c *Context) Unwatch(pid *PID) {
	c.system.Send(pid, &Unwatch{Watcher: c.Self})
}

// ============== 系统消息 ==============

// Started Actor 启动完成消息
type Started struct{}

// Kind 实现 Kinded 接口
func (s *Started) Kind() string { return "system.started" }

// Stopping Actor 正在停止消息
type Stopping struct{}

// Kind 实现 Kinded 接口
func (s *Stopping) Kind() string { return "system.stopping" }

// Stopped Actor 已停止消息
type Stopped struct{}

// Kind 实现 Kinded 接口
func (s *Stopped) Kind() string { return "system.stopped" }

// Restarting Actor 正在重启消息
type Restarting struct{}

// Kind 实现 Kinded 接口
func (r *Restarting) Kind() string { return "system.restarting" }

// PoisonPill 毒丸消息，优雅停止 Actor
type PoisonPill struct{}

// Kind 实现 Kinded 接口
func (p *PoisonPill) Kind() string { return "system.poison_pill" }

// Watch 监控请求
type Watch struct {
	Watcher *PID
}

// Kind 实现 Kinded 接口
func (w *Watch) Kind() string { return "system.watch" }

// Unwatch 取消监控
type Unwatch struct {
	Watcher *PID
}

// Kind 实现 Kinded 接口
func (u *Unwatch) Kind() string { return "system.unwatch" }

// Terminated Actor 终止通知
type Terminated struct {
	Who *PID
}

// Kind 实现 Kinded 接口
func (t *Terminated) Kind() string { return "system.terminated" }

// IsLifecycle 是否为 Actor 自身的生命周期通知
func IsLifecycle(msg Message) bool {
	switch msg.(type) {
	case *Started, *Stopping, *Stopped, *Restarting:
		return true
	}
	return false
}

// restartRequest 要求 Actor 在自己的 goroutine 上重启（AllForOne）
type restartRequest struct {
	reason any
}

// escalation 子 Actor 上报的失败，父 Actor 以同一原因失败
type escalation struct {
	child  *PID
	reason any
}

func isSystemMessage(msg Message) bool {
	switch msg.(type) {
	case *Started, *Stopping, *Stopped, *Restarting, *PoisonPill,
		*Watch, *Unwatch, *Terminated, *restartRequest, *escalation:
		return true
	}
	return false
}

// ============== 事件 ==============

// DeadLetter 无法投递的消息
type DeadLetter struct {
	Message Message
	Target  *PID
	Sender  *PID
}

// Kind 实现 Kinded 接口
func (d *DeadLetter) Kind() string { return "event.dead_letter" }

// UnhandledMessage Actor 报告无法处理的消息
type UnhandledMessage struct {
	Message   Message
	Recipient *PID
	Sender    *PID
}

// Kind 实现 Kinded 接口
func (u *UnhandledMessage) Kind() string { return "event.unhandled" }

// ============== 请求/响应支持 ==============

// ResponseTimeout 响应超时错误
type ResponseTimeout struct {
	Target  *PID
	Timeout time.Duration
}

// Error 实现 error 接口
func (r *ResponseTimeout) Error() string {
	return fmt.Sprintf("request to %s timed out after %v", r.Target, r.Timeout)
}

// Unwrap 超时归类为 context.DeadlineExceeded
func (r *ResponseTimeout) Unwrap() error {
	return context.DeadlineExceeded
}

// ============== 通用消息类型 ==============

// SimpleMessage 简单消息，用于快速创建消息
type SimpleMessage struct {
	kind    string
	Payload any
}

// NewSimpleMessage 创建简单消息
func NewSimpleMessage(kind string, payload any) *SimpleMessage {
	return &SimpleMessage{kind: kind, Payload: payload}
}

// Kind 实现 Kinded 接口
func (m *SimpleMessage) Kind() string { return m.kind }

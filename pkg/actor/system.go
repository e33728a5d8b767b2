package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/serial"
)

// ErrSystemNotRunning 系统已关闭
var ErrSystemNotRunning = errors.New("actor: system is not running")

// System Actor 系统
// 管理所有 Actor 的生命周期、消息路由和监督
type System struct {
	// 基本信息
	name string

	// Actor 注册表
	actors   map[string]*actorCell
	actorsMu sync.RWMutex

	// 全局邮箱（用于路由消息）
	mailbox chan envelope

	// 死信队列（无法投递的消息）
	deadLetters chan envelope

	// 生命周期控制
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning atomic.Bool

	config    *SystemConfig
	stats     *SystemStats
	logger    *slog.Logger
	events    *EventStream
	scheduler *Scheduler
}

// SystemStats 系统统计
type SystemStats struct {
	TotalActors   int64
	TotalMessages int64
	DeadLetters   int64
	ProcessedMsgs int64
	StartTime     time.Time
}

// actorCell Actor 单元，包含 Actor 及其运行时状态
type actorCell struct {
	pid      *PID
	props    *Props
	actor    Actor
	mailbox  chan envelope
	parent   *PID
	children map[string]*PID // 受 System.actorsMu 保护
	watchers map[string]*PID // 只在自身 goroutine 访问

	// future 为真时只有邮箱没有消息循环，用于 Ask
	future bool

	state      actorState
	stateMu    sync.RWMutex
	throughput int
	stats      *AtomicStatsCollector

	ctx    context.Context
	cancel context.CancelFunc
}

type actorState int

const (
	actorStateIdle actorState = iota
	actorStateRunning
	actorStateStopping
	actorStateStopped
	actorStateRestarting
)

// envelope 消息信封
type envelope struct {
	target  *PID
	sender  *PID
	message Message
	sentAt  time.Time
}

// NewSystem 创建新的 Actor 系统
func NewSystem(name string) *System {
	return NewSystemWithConfig(name, DefaultSystemConfig())
}

// NewSystemWithConfig 使用配置创建 Actor 系统
func NewSystemWithConfig(name string, config *SystemConfig) *System {
	if config == nil {
		config = DefaultSystemConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DefaultStrategy == nil {
		config.DefaultStrategy = DefaultSupervisorStrategy()
	}
	if config.SerializeMessages && config.Serializers == nil {
		config.Serializers = serial.NewRegistry()
	}

	s := &System{
		name:        name,
		actors:      make(map[string]*actorCell),
		mailbox:     make(chan envelope, config.MailboxSize),
		deadLetters: make(chan envelope, config.DeadLetterSize),
		ctx:         ctx,
		cancel:      cancel,
		config:      config,
		logger:      logger.With("system", name),
		stats: &SystemStats{
			StartTime: time.Now(),
		},
	}
	s.events = newEventStream(s)
	s.scheduler = newScheduler(s)

	s.isRunning.Store(true)

	// 启动消息分发器
	s.wg.Add(1)
	go s.dispatcher()

	// 启动死信处理器
	s.wg.Add(1)
	go s.deadLetterHandler()

	s.logger.Info("actor system started")
	return s
}

// Name 返回系统名称
func (s *System) Name() string {
	return s.name
}

// Logger 返回系统日志器
func (s *System) Logger() *slog.Logger {
	return s.logger
}

// EventStream 返回系统事件流
func (s *System) EventStream() *EventStream {
	return s.events
}

// Scheduler 返回系统调度器
func (s *System) Scheduler() *Scheduler {
	return s.scheduler
}

// Spawn 创建顶层 Actor，Actor 实例在重启时复用
func (s *System) Spawn(actor Actor, name string) *PID {
	return s.spawnWithProps(PropsFromActor(actor), name, nil)
}

// SpawnWithProps 使用属性创建顶层 Actor
//
// name 为空时生成匿名名称。名称已存在时返回已有 PID。
func (s *System) SpawnWithProps(props *Props, name string) *PID {
	return s.spawnWithProps(props, name, nil)
}

// spawnWithProps 使用属性创建
func (s *System) spawnWithProps(props *Props, name string, parent *PID) *PID {
	if !s.isRunning.Load() {
		s.logger.Warn("spawn on stopped system", "name", name)
		return nil
	}
	if props == nil || props.Producer == nil {
		s.logger.Error("spawn without producer", "name", name)
		return nil
	}
	if name == "" {
		name = "$" + uuid.NewString()
	}

	// 路由 Actor 包装 routee 属性
	if props.Router != nil && props.Router.Routees > 0 {
		props = routerProps(props)
	}
	instance := props.Producer()

	s.actorsMu.Lock()
	defer s.actorsMu.Unlock()

	// 检查名称是否已存在
	if existing, exists := s.actors[name]; exists {
		s.logger.Warn("actor already exists, returning existing PID", "name", name)
		return existing.pid
	}

	pid := &PID{ID: name, system: s}
	if props.Deploy.Scope == DeployRemote {
		pid.Address = props.Deploy.Address
	}

	ctx, cancel := context.WithCancel(s.ctx)

	cell := &actorCell{
		pid:        pid,
		props:      props,
		actor:      instance,
		mailbox:    make(chan envelope, s.resolveMailbox(props)),
		parent:     parent,
		children:   make(map[string]*PID),
		watchers:   make(map[string]*PID),
		state:      actorStateIdle,
		throughput: s.resolveDispatcher(props.Dispatcher),
		stats:      NewAtomicStatsCollector(),
		ctx:        ctx,
		cancel:     cancel,
	}

	s.actors[name] = cell
	atomic.AddInt64(&s.stats.TotalActors, 1)

	// 如果有父 Actor，注册为子 Actor
	if parent != nil {
		if parentCell, ok := s.actors[parent.ID]; ok {
			parentCell.children[name] = pid
		}
	}

	s.wg.Add(1)
	go s.actorLoop(cell)

	s.SendWithSender(pid, &Started{}, nil)

	s.logger.Debug("spawned actor", "name", name, "parent", parent)
	return pid
}

// resolveMailbox 邮箱容量：显式容量优先，其次按名称查配置
func (s *System) resolveMailbox(props *Props) int {
	if props.MailboxSize > 0 {
		return props.MailboxSize
	}
	name := props.Mailbox
	if name == "" {
		name = "default"
	}
	if capacity, ok := s.config.Mailboxes[name]; ok && capacity > 0 {
		return capacity
	}
	if props.Mailbox != "" {
		s.logger.Warn("unknown mailbox, falling back to default", "mailbox", props.Mailbox)
	}
	return s.config.DefaultActorMailboxSize
}

// resolveDispatcher 调度器吞吐量：每处理 throughput 条消息让出一次
func (s *System) resolveDispatcher(name string) int {
	if name == "" {
		name = "default"
	}
	if throughput, ok := s.config.Dispatchers[name]; ok {
		return throughput
	}
	s.logger.Warn("unknown dispatcher, falling back to default", "dispatcher", name)
	return s.config.Dispatchers["default"]
}

// Send 发送消息（无发送者）
func (s *System) Send(target *PID, msg Message) {
	s.SendWithSender(target, msg, nil)
}

// SendWithSender 发送消息（带发送者）
func (s *System) SendWithSender(target *PID, msg Message, sender *PID) {
	if !s.isRunning.Load() || target == nil {
		return
	}

	env := envelope{
		target:  target,
		sender:  sender,
		message: s.checkSerializable(msg),
		sentAt:  time.Now(),
	}

	select {
	case s.mailbox <- env:
		atomic.AddInt64(&s.stats.TotalMessages, 1)
	default:
		// 邮箱满，发送到死信队列
		s.toDeadLetters(env)
	}
}

// TrySend 尝试发送消息（非阻塞）
// 如果邮箱已满，返回 false
func (s *System) TrySend(target *PID, msg Message) bool {
	if !s.isRunning.Load() || target == nil {
		return false
	}

	env := envelope{
		target:  target,
		message: s.checkSerializable(msg),
		sentAt:  time.Now(),
	}

	select {
	case s.mailbox <- env:
		atomic.AddInt64(&s.stats.TotalMessages, 1)
		return true
	default:
		return false
	}
}

// checkSerializable 开启 serialize_messages 时用户消息经序列化往返后再投递
func (s *System) checkSerializable(msg Message) Message {
	if !s.config.SerializeMessages || isSystemMessage(msg) {
		return msg
	}
	payload, err := s.config.Serializers.Serialize(msg)
	if err != nil {
		s.logger.Warn("message is not serializable", "kind", KindOf(msg), "error", err)
		return msg
	}
	decoded, err := s.config.Serializers.Deserialize(payload)
	if err != nil {
		s.logger.Warn("message round trip failed", "kind", KindOf(msg), "error", err)
		return msg
	}
	return decoded
}

func (s *System) toDeadLetters(env envelope) {
	select {
	case s.deadLetters <- env:
		atomic.AddInt64(&s.stats.DeadLetters, 1)
	default:
		s.logger.Warn("dead letter queue full, message dropped",
			"kind", KindOf(env.message), "target", env.target)
	}
}

// Broadcast 广播消息到所有 Actor
func (s *System) Broadcast(msg Message) {
	s.BroadcastWithFilter(msg, func(*PID) bool { return true })
}

// BroadcastWithFilter 带过滤条件的广播
func (s *System) BroadcastWithFilter(msg Message, filter func(*PID) bool) {
	s.actorsMu.RLock()
	pids := make([]*PID, 0, len(s.actors))
	for _, cell := range s.actors {
		if !cell.future && filter(cell.pid) {
			pids = append(pids, cell.pid)
		}
	}
	s.actorsMu.RUnlock()

	for _, pid := range pids {
		s.TrySend(pid, msg)
	}
}

// Request 同步请求（等待单条回复）
func (s *System) Request(target *PID, msg Message, timeout time.Duration) (Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := s.RequestContext(ctx, target, msg)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, &ResponseTimeout{Target: target, Timeout: timeout}
	}
	return resp, err
}

// RequestContext 发送请求并等待单条回复，ctx 取消时返回 ctx.Err()
//
// 回复通过临时 future PID 接收，请求结束后注销。
func (s *System) RequestContext(ctx context.Context, target *PID, msg Message) (Message, error) {
	if !s.isRunning.Load() {
		return nil, ErrSystemNotRunning
	}

	future := s.newFuture()
	defer s.removeFuture(future)

	s.SendWithSender(target, msg, future.pid)

	select {
	case env := <-future.mailbox:
		return env.message, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *System) newFuture() *actorCell {
	name := "$ask-" + uuid.NewString()
	cell := &actorCell{
		pid:     &PID{ID: name, system: s},
		mailbox: make(chan envelope, 1),
		future:  true,
	}
	s.actorsMu.Lock()
	s.actors[name] = cell
	s.actorsMu.Unlock()
	return cell
}

func (s *System) removeFuture(cell *actorCell) {
	s.actorsMu.Lock()
	delete(s.actors, cell.pid.ID)
	s.actorsMu.Unlock()
}

// Stop 停止 Actor
// 发送 PoisonPill，已在邮箱中的消息先处理完
func (s *System) Stop(pid *PID) {
	if pid == nil {
		return
	}
	s.actorsMu.RLock()
	cell, exists := s.actors[pid.ID]
	s.actorsMu.RUnlock()

	if !exists || cell.future {
		return
	}

	s.Send(pid, &PoisonPill{})

	cell.stateMu.Lock()
	if cell.state != actorStateStopped {
		cell.state = actorStateStopping
	}
	cell.stateMu.Unlock()
}

// StopGracefully 停止 Actor 并等待其从注册表中移除
func (s *System) StopGracefully(pid *PID, timeout time.Duration) error {
	s.Stop(pid)

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, exists := s.GetActor(pid.ID); !exists {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}

	return fmt.Errorf("timeout waiting for actor %s to stop", pid.ID)
}

// Shutdown 关闭整个 Actor 系统
func (s *System) Shutdown() {
	s.ShutdownWithTimeout(s.config.ShutdownTimeout)
}

// ShutdownWithTimeout 带超时的关闭
func (s *System) ShutdownWithTimeout(timeout time.Duration) {
	if !s.isRunning.Load() {
		return
	}
	s.logger.Info("actor system shutting down")

	s.scheduler.cancelAll()

	for _, pid := range s.ListActors() {
		s.Stop(pid)
	}

	s.isRunning.Store(false)
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	select {
	case <-done:
		s.logger.Info("actor system shutdown complete")
	case <-time.After(timeout):
		s.logger.Warn("actor system shutdown timeout, forcing exit")
	}
}

// dispatcher 全局消息分发器
func (s *System) dispatcher() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case env := <-s.mailbox:
			s.dispatchMessage(env)
		}
	}
}

// dispatchMessage 分发单条消息
func (s *System) dispatchMessage(env envelope) {
	s.actorsMu.RLock()
	cell, exists := s.actors[env.target.ID]
	s.actorsMu.RUnlock()

	if !exists {
		s.toDeadLetters(env)
		return
	}

	select {
	case cell.mailbox <- env:
	default:
		// Actor 邮箱满，背压处理
		s.logger.Warn("actor mailbox full, message queued to dead letter", "actor", env.target.ID)
		s.toDeadLetters(env)
	}
}

// actorLoop Actor 消息处理循环
func (s *System) actorLoop(cell *actorCell) {
	defer s.wg.Done()
	defer s.cleanupActor(cell)

	cell.stateMu.Lock()
	cell.state = actorStateRunning
	cell.stateMu.Unlock()

	if reason, failed := s.preStart(cell); failed && s.supervise(cell, &Started{}, reason) {
		return
	}

	processed := 0
	for {
		select {
		case <-cell.ctx.Done():
			return
		case env := <-cell.mailbox:
			if s.processMessage(cell, env) {
				return
			}
			processed++
			if cell.throughput > 0 && processed%cell.throughput == 0 {
				runtime.Gosched()
			}
		}
	}
}

// preStart 调用 PreStarter 钩子，只负责恢复 panic，监督由调用方决定
func (s *System) preStart(cell *actorCell) (reason any, failed bool) {
	starter, ok := cell.actor.(PreStarter)
	if !ok {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			s.reportPanic(cell, &Started{}, r)
			reason, failed = r, true
		}
	}()

	starter.PreStart(s.newContext(cell, nil, nil))
	return nil, false
}

// processMessage 处理单条消息
// 返回 true 表示 Actor 应当停止
func (s *System) processMessage(cell *actorCell, env envelope) bool {
	switch msg := env.message.(type) {
	case *PoisonPill:
		s.notify(cell, &Stopping{})
		return true

	case *Watch:
		cell.watchers[msg.Watcher.ID] = msg.Watcher
		return false

	case *Unwatch:
		delete(cell.watchers, msg.Watcher.ID)
		return false

	case *restartRequest:
		return s.restart(cell, msg.reason)

	case *escalation:
		s.logger.Warn("failure escalated", "actor", cell.pid.ID, "child", msg.child.ID, "reason", msg.reason)
		return s.supervise(cell, env.message, msg.reason)
	}

	return s.invoke(cell, env)
}

// invoke 调用 Actor.Receive，panic 交给监督策略
func (s *System) invoke(cell *actorCell, env envelope) (stop bool) {
	start := time.Now()
	cell.stats.RecordReceived()

	defer func() {
		if r := recover(); r != nil {
			cell.stats.RecordError(recoveredError(r))
			s.reportPanic(cell, env.message, r)
			stop = s.supervise(cell, env.message, r)
			return
		}
		cell.stats.RecordHandled(time.Since(start))
	}()

	cell.actor.Receive(s.newContext(cell, env.sender, env.message), env.message)
	atomic.AddInt64(&s.stats.ProcessedMsgs, 1)
	return false
}

// notify 投递生命周期通知，忽略其中的 panic
func (s *System) notify(cell *actorCell, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in lifecycle notice", "actor", cell.pid.ID, "kind", KindOf(msg), "error", r)
		}
	}()
	cell.actor.Receive(s.newContext(cell, nil, msg), msg)
}

func (s *System) reportPanic(cell *actorCell, msg Message, r any) {
	if s.config.PanicHandler != nil {
		s.config.PanicHandler(cell.pid, msg, r)
		return
	}
	s.logger.Error("panic in actor",
		"actor", cell.pid.ID,
		"message", KindOf(msg),
		"error", r,
		"stack", string(debug.Stack()))
}

func (s *System) newContext(cell *actorCell, sender *PID, msg Message) *Context {
	return &Context{
		Self:     cell.pid,
		Sender:   sender,
		Parent:   cell.parent,
		Children: s.childrenOf(cell),
		system:   s,
		ctx:      cell.ctx,
		message:  msg,
	}
}

// strategyFor 父 Actor 的策略，顶层或父 Actor 未配置时使用系统默认策略
func (s *System) strategyFor(cell *actorCell) SupervisorStrategy {
	if cell.parent != nil {
		s.actorsMu.RLock()
		parentCell, ok := s.actors[cell.parent.ID]
		s.actorsMu.RUnlock()
		if ok && parentCell.props.SupervisorStrategy != nil {
			return parentCell.props.SupervisorStrategy
		}
	}
	return s.config.DefaultStrategy
}

// outcome 监督决定在本 Actor 上的执行结果
type outcome int

const (
	outcomeResume outcome = iota
	outcomeRestart
	outcomeStop
)

// supervise 处理 Actor 失败
// 返回 true 表示 Actor 应当停止
func (s *System) supervise(cell *actorCell, msg Message, reason any) bool {
	switch s.handleFailure(cell, msg, reason) {
	case outcomeRestart:
		return s.restart(cell, reason)
	case outcomeStop:
		return true
	}
	return false
}

// handleFailure 询问监督策略并执行延迟、兄弟和升级等附带动作，重启本身由调用方完成
func (s *System) handleFailure(cell *actorCell, msg Message, reason any) outcome {
	decision := s.strategyFor(cell).HandleFailure(cell.pid, msg, reason)
	s.logger.Info("supervisor decision",
		"actor", cell.pid.ID,
		"directive", decision.Directive.String(),
		"delay", decision.Delay,
		"all", decision.AllChildren)

	switch decision.Directive {
	case DirectiveResume:
		return outcomeResume

	case DirectiveRestart:
		if decision.Delay > 0 {
			select {
			case <-time.After(decision.Delay):
			case <-cell.ctx.Done():
				return outcomeStop
			}
		}
		if decision.AllChildren {
			for _, sibling := range s.siblingsOf(cell) {
				s.Send(sibling, &restartRequest{reason: reason})
			}
		}
		return outcomeRestart

	case DirectiveStop:
		if decision.AllChildren {
			for _, sibling := range s.siblingsOf(cell) {
				s.Stop(sibling)
			}
		}
		return outcomeStop

	case DirectiveEscalate:
		if cell.parent != nil {
			s.Send(cell.parent, &escalation{child: cell.pid, reason: reason})
		} else {
			s.logger.Error("escalation from top-level actor, stopping", "actor", cell.pid.ID, "reason", reason)
		}
		return outcomeStop
	}
	return outcomeResume
}

// restart 在 Actor 自己的 goroutine 上重建实例
//
// PreStart 失败时在同一循环内再次询问策略，连续失败不会加深调用栈。
// 返回 true 表示策略最终决定停止。
func (s *System) restart(cell *actorCell, reason any) bool {
	for {
		cell.stateMu.Lock()
		cell.state = actorStateRestarting
		cell.stateMu.Unlock()

		s.notify(cell, &Restarting{})
		cell.actor = cell.props.Producer()
		cell.stats.RecordRestart()

		cell.stateMu.Lock()
		cell.state = actorStateRunning
		cell.stateMu.Unlock()

		s.logger.Info("actor restarted", "actor", cell.pid.ID, "restarts", cell.stats.Restarts(), "reason", reason)

		r, failed := s.preStart(cell)
		if !failed {
			s.Send(cell.pid, &Started{})
			return false
		}
		switch s.handleFailure(cell, &Started{}, r) {
		case outcomeStop:
			return true
		case outcomeResume:
			s.Send(cell.pid, &Started{})
			return false
		}
		reason = r
	}
}

// siblingsOf 同一父 Actor 下的其他子 Actor，顶层 Actor 没有兄弟
func (s *System) siblingsOf(cell *actorCell) []*PID {
	if cell.parent == nil {
		return nil
	}
	s.actorsMu.RLock()
	defer s.actorsMu.RUnlock()

	parentCell, ok := s.actors[cell.parent.ID]
	if !ok {
		return nil
	}
	siblings := make([]*PID, 0, len(parentCell.children))
	for id, pid := range parentCell.children {
		if id != cell.pid.ID {
			siblings = append(siblings, pid)
		}
	}
	return siblings
}

// watch 注册 watcher 对 target 的监控，target 不存在时立即通知
func (s *System) watch(target, watcher *PID) {
	if _, exists := s.GetActor(target.ID); !exists {
		s.Send(watcher, &Terminated{Who: target})
		return
	}
	s.Send(target, &Watch{Watcher: watcher})
}

// cleanupActor 清理 Actor
func (s *System) cleanupActor(cell *actorCell) {
	cell.stateMu.Lock()
	cell.state = actorStateStopped
	cell.stateMu.Unlock()

	s.notify(cell, &Stopped{})

	// 从注册表中移除
	s.actorsMu.Lock()
	delete(s.actors, cell.pid.ID)
	if cell.parent != nil {
		if parentCell, ok := s.actors[cell.parent.ID]; ok {
			delete(parentCell.children, cell.pid.ID)
		}
	}
	children := make([]*PID, 0, len(cell.children))
	for _, child := range cell.children {
		children = append(children, child)
	}
	s.actorsMu.Unlock()

	// 停止所有子 Actor
	for _, child := range children {
		s.Stop(child)
	}

	// 通知所有监控者
	for _, watcher := range cell.watchers {
		s.Send(watcher, &Terminated{Who: cell.pid})
	}

	s.events.UnsubscribeAll(cell.pid)
	cell.cancel()

	atomic.AddInt64(&s.stats.TotalActors, -1)
	s.logger.Debug("actor stopped", "actor", cell.pid.ID)
}

// childrenOf 获取子 Actor PID 列表
func (s *System) childrenOf(cell *actorCell) []*PID {
	s.actorsMu.RLock()
	defer s.actorsMu.RUnlock()

	pids := make([]*PID, 0, len(cell.children))
	for _, pid := range cell.children {
		pids = append(pids, pid)
	}
	return pids
}

// deadLetterHandler 死信处理器
func (s *System) deadLetterHandler() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case env := <-s.deadLetters:
			if s.config.EnableDeadLetterLogging {
				s.logger.Warn("dead letter",
					"message", KindOf(env.message),
					"target", env.target,
					"sender", env.sender)
			}
			if _, nested := env.message.(*DeadLetter); !nested {
				s.events.Publish(&DeadLetter{Message: env.message, Target: env.target, Sender: env.sender})
			}
		}
	}
}

// Stats 获取统计信息
func (s *System) Stats() *SystemStats {
	return &SystemStats{
		TotalActors:   atomic.LoadInt64(&s.stats.TotalActors),
		TotalMessages: atomic.LoadInt64(&s.stats.TotalMessages),
		DeadLetters:   atomic.LoadInt64(&s.stats.DeadLetters),
		ProcessedMsgs: atomic.LoadInt64(&s.stats.ProcessedMsgs),
		StartTime:     s.stats.StartTime,
	}
}

// ActorStats 获取单个 Actor 的统计信息
func (s *System) ActorStats(pid *PID) (*ActorStats, bool) {
	s.actorsMu.RLock()
	cell, ok := s.actors[pid.ID]
	s.actorsMu.RUnlock()
	if !ok || cell.future {
		return nil, false
	}
	return cell.stats.Stats(), true
}

// GetActor 获取 Actor
func (s *System) GetActor(name string) (*PID, bool) {
	s.actorsMu.RLock()
	defer s.actorsMu.RUnlock()

	if cell, ok := s.actors[name]; ok && !cell.future {
		return cell.pid, true
	}
	return nil, false
}

// ListActors 列出所有 Actor
func (s *System) ListActors() []*PID {
	s.actorsMu.RLock()
	defer s.actorsMu.RUnlock()

	pids := make([]*PID, 0, len(s.actors))
	for _, cell := range s.actors {
		if !cell.future {
			pids = append(pids, cell.pid)
		}
	}
	return pids
}

// Count 返回 Actor 数量
func (s *System) Count() int {
	return len(s.ListActors())
}

// IsRunning 检查系统是否运行中
func (s *System) IsRunning() bool {
	return s.isRunning.Load()
}

func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}

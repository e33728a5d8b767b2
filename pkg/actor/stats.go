package actor

import (
	"sync"
	"sync/atomic"
	"time"
)

// ActorStats Actor 运行时统计信息
type ActorStats struct {
	// 消息计数
	MessagesReceived int64 // 接收的消息总数
	MessagesHandled  int64 // 成功处理的消息数
	Errors           int64 // 失败数
	Restarts         int64 // 重启次数

	// 延迟统计
	TotalLatency   time.Duration
	AverageLatency time.Duration

	// 时间戳
	StartedAt     time.Time
	LastMessageAt time.Time
	LastErrorAt   time.Time

	// LastError 最后一次失败原因
	LastError error
}

// AtomicStatsCollector 使用原子操作的统计收集器
//
// 每个 Actor 单元持有一个，由消息循环写入，[System.ActorStats] 读取快照。
type AtomicStatsCollector struct {
	messagesReceived atomic.Int64
	messagesHandled  atomic.Int64
	errors           atomic.Int64
	restarts         atomic.Int64
	totalLatencyNs   atomic.Int64

	// 非原子字段，需要锁保护
	mu            sync.RWMutex
	startedAt     time.Time
	lastMessageAt time.Time
	lastErrorAt   time.Time
	lastError     error
}

// NewAtomicStatsCollector 创建原子统计收集器
func NewAtomicStatsCollector() *AtomicStatsCollector {
	return &AtomicStatsCollector{
		startedAt: time.Now(),
	}
}

// RecordReceived 记录接收
func (c *AtomicStatsCollector) RecordReceived() {
	c.messagesReceived.Add(1)
	c.mu.Lock()
	c.lastMessageAt = time.Now()
	c.mu.Unlock()
}

// RecordHandled 记录处理完成
func (c *AtomicStatsCollector) RecordHandled(latency time.Duration) {
	c.messagesHandled.Add(1)
	c.totalLatencyNs.Add(int64(latency))
}

// RecordError 记录失败
func (c *AtomicStatsCollector) RecordError(err error) {
	c.errors.Add(1)
	c.mu.Lock()
	c.lastError = err
	c.lastErrorAt = time.Now()
	c.mu.Unlock()
}

// RecordRestart 记录重启
func (c *AtomicStatsCollector) RecordRestart() {
	c.restarts.Add(1)
}

// Restarts 已重启次数
func (c *AtomicStatsCollector) Restarts() int64 {
	return c.restarts.Load()
}

// Stats 获取统计快照
func (c *AtomicStatsCollector) Stats() *ActorStats {
	handled := c.messagesHandled.Load()
	totalLatency := time.Duration(c.totalLatencyNs.Load())

	var avgLatency time.Duration
	if handled > 0 {
		avgLatency = totalLatency / time.Duration(handled)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return &ActorStats{
		MessagesReceived: c.messagesReceived.Load(),
		MessagesHandled:  handled,
		Errors:           c.errors.Load(),
		Restarts:         c.restarts.Load(),
		TotalLatency:     totalLatency,
		AverageLatency:   avgLatency,
		StartedAt:        c.startedAt,
		LastMessageAt:    c.lastMessageAt,
		LastErrorAt:      c.lastErrorAt,
		LastError:        c.lastError,
	}
}

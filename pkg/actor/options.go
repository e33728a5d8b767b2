package actor

// SpawnOption 创建选项
//
// 选项集合是封闭的：[DeployOption]、[RouterOption]、[SupervisorOption]、
// [DispatcherOption]、[MailboxOption]。同一类选项后者覆盖前者，
// 不同类选项互不影响，顺序无关。
type SpawnOption interface {
	applyTo(p *Props)
}

// DeployOption 部署位置
type DeployOption struct {
	Deploy Deploy
}

func (o DeployOption) applyTo(p *Props) { p.Deploy = o.Deploy }

// RouterOption 路由配置
type RouterOption struct {
	Router RouterConfig
}

func (o RouterOption) applyTo(p *Props) {
	r := o.Router
	p.Router = &r
}

// SupervisorOption 子 Actor 监督策略
type SupervisorOption struct {
	Strategy SupervisorStrategy
}

func (o SupervisorOption) applyTo(p *Props) { p.SupervisorStrategy = o.Strategy }

// DispatcherOption 调度器名称
type DispatcherOption struct {
	Name string
}

func (o DispatcherOption) applyTo(p *Props) { p.Dispatcher = o.Name }

// MailboxOption 邮箱名称或容量
//
// Capacity 大于 0 时直接指定容量，否则按 Name 从配置解析。
type MailboxOption struct {
	Name     string
	Capacity int
}

func (o MailboxOption) applyTo(p *Props) {
	p.Mailbox = o.Name
	p.MailboxSize = o.Capacity
}

// ApplyOptions 从 base 出发依次应用 opts，返回新的属性
//
// base 不会被修改；base 为 nil 时从空属性开始。
func ApplyOptions(base *Props, opts []SpawnOption) *Props {
	p := base.Clone()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		next := p.Clone()
		opt.applyTo(next)
		p = next
	}
	return p
}

// WithDeploy 部署到指定位置
func WithDeploy(scope DeployScope, address string) SpawnOption {
	return DeployOption{Deploy: Deploy{Scope: scope, Address: address}}
}

// WithRouter 以 kind 策略路由到 routees 个实例
func WithRouter(kind RouterKind, routees int) SpawnOption {
	return RouterOption{Router: RouterConfig{Kind: kind, Routees: routees}}
}

// WithSupervisor 指定子 Actor 监督策略
func WithSupervisor(strategy SupervisorStrategy) SpawnOption {
	return SupervisorOption{Strategy: strategy}
}

// WithDispatcher 指定调度器名称
func WithDispatcher(name string) SpawnOption {
	return DispatcherOption{Name: name}
}

// WithMailbox 指定邮箱名称
func WithMailbox(name string) SpawnOption {
	return MailboxOption{Name: name}
}
